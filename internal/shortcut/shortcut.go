// Package shortcut parses Windows Shell Link (.lnk) files to recover the
// link target, command-line arguments, and working directory. The binary
// format is MS-SHLLINK; all of its quirks are contained here so the rest of
// the discovery pipeline only sees a resolved Target or a typed failure.
package shortcut

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
)

// Resolution failure sentinels. Discovery treats all of them as skip-this-
// item conditions, never as fatal scan errors.
var (
	ErrNotShortcut       = errors.New("not a shell link file")
	ErrMalformed         = errors.New("malformed shell link")
	ErrUnsupportedTarget = errors.New("shortcut target is not a supported executable")
)

// Target is the resolved content of a shortcut.
type Target struct {
	Path             string
	Arguments        string
	WorkingDirectory string
	IconLocation     string
}

// Resolver resolves a shortcut file on disk to its target. The production
// implementation is FileResolver; scanner tests substitute fakes.
type Resolver interface {
	Resolve(path string) (Target, error)
}

// FileResolver reads and parses shortcut files from the filesystem.
type FileResolver struct{}

// Resolve implements Resolver. Side-effect-free apart from reading the file.
func (FileResolver) Resolve(path string) (Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrNotShortcut, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Shell link header constants.
const (
	headerSize = 0x4C

	flagHasLinkTargetIDList = 0x01
	flagHasLinkInfo         = 0x02
	flagHasName             = 0x04
	flagHasRelativePath     = 0x08
	flagHasWorkingDir       = 0x10
	flagHasArguments        = 0x20
	flagHasIconLocation     = 0x40
	flagIsUnicode           = 0x80

	// LinkInfo flags
	flagVolumeIDAndLocalBasePath = 0x01

	// Extra data block carrying an environment-variable target path.
	sigEnvironmentVariableDataBlock = 0xA0000001
)

// linkCLSID is the fixed class identifier every shell link carries after the
// header size field.
var linkCLSID = [16]byte{
	0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
}

// Parse decodes a shell link from raw bytes. linkDir is the directory the
// .lnk file lives in, used to resolve a relative-path fallback when the link
// carries no absolute target.
func Parse(data []byte, linkDir string) (Target, error) {
	if len(data) < headerSize {
		return Target{}, fmt.Errorf("%w: %d bytes is shorter than the link header", ErrNotShortcut, len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != headerSize {
		return Target{}, fmt.Errorf("%w: bad header size", ErrNotShortcut)
	}
	if [16]byte(data[4:20]) != linkCLSID {
		return Target{}, fmt.Errorf("%w: bad CLSID", ErrNotShortcut)
	}

	flags := binary.LittleEndian.Uint32(data[20:24])
	unicode := flags&flagIsUnicode != 0
	off := headerSize

	// LinkTargetIDList: opaque shell item IDs, skipped. Store/UWP links are
	// often ID-list-only; they fall out below as having no local path.
	if flags&flagHasLinkTargetIDList != 0 {
		if off+2 > len(data) {
			return Target{}, fmt.Errorf("%w: truncated id list size", ErrMalformed)
		}
		size := int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2 + size
		if off > len(data) {
			return Target{}, fmt.Errorf("%w: truncated id list", ErrMalformed)
		}
	}

	var t Target

	if flags&flagHasLinkInfo != 0 {
		base, next, err := parseLinkInfo(data, off)
		if err != nil {
			return Target{}, err
		}
		t.Path = base
		off = next
	}

	// StringData sections appear in this fixed order, each gated by a flag.
	readString := func() (string, error) {
		s, next, err := parseStringData(data, off, unicode)
		off = next
		return s, err
	}
	var relativePath string
	for _, sd := range []struct {
		flag uint32
		dst  *string
	}{
		{flagHasName, new(string)}, // description, unused
		{flagHasRelativePath, &relativePath},
		{flagHasWorkingDir, &t.WorkingDirectory},
		{flagHasArguments, &t.Arguments},
		{flagHasIconLocation, &t.IconLocation},
	} {
		if flags&sd.flag == 0 {
			continue
		}
		s, err := readString()
		if err != nil {
			return Target{}, err
		}
		*sd.dst = s
	}

	if t.Path == "" {
		// Some links (notably ones pointing at %ProgramFiles% style paths)
		// carry the target only in the environment data block.
		if env := findEnvTarget(data, off); env != "" {
			t.Path = os.ExpandEnv(expandWindowsEnv(env))
		}
	}
	if t.Path == "" && relativePath != "" && linkDir != "" {
		t.Path = filepath.Clean(filepath.Join(linkDir, relativePath))
	}

	if t.Path == "" {
		return Target{}, fmt.Errorf("%w: no local target path (store/UWP link)", ErrUnsupportedTarget)
	}
	if !strings.EqualFold(filepath.Ext(t.Path), ".exe") {
		return Target{}, fmt.Errorf("%w: %s", ErrUnsupportedTarget, t.Path)
	}
	if strings.Contains(strings.ToLower(t.Path), `\windowsapps\`) {
		return Target{}, fmt.Errorf("%w: packaged app %s", ErrUnsupportedTarget, t.Path)
	}
	return t, nil
}

// parseLinkInfo extracts the local base path (plus common suffix) from a
// LinkInfo structure starting at off. Returns the path (empty when the link
// has no local volume target) and the offset just past the structure.
func parseLinkInfo(data []byte, off int) (string, int, error) {
	if off+8 > len(data) {
		return "", 0, fmt.Errorf("%w: truncated link info", ErrMalformed)
	}
	size := int(binary.LittleEndian.Uint32(data[off : off+4]))
	if size < 0x1C || off+size > len(data) {
		return "", 0, fmt.Errorf("%w: link info size %d out of range", ErrMalformed, size)
	}
	info := data[off : off+size]
	headerLen := int(binary.LittleEndian.Uint32(info[4:8]))
	infoFlags := binary.LittleEndian.Uint32(info[8:12])

	if infoFlags&flagVolumeIDAndLocalBasePath == 0 {
		// Network-relative link only; no local path.
		return "", off + size, nil
	}

	basePath := ""
	suffix := ""
	if headerLen >= 0x24 && len(info) >= 0x24 {
		// Unicode offsets are authoritative when present.
		uBase := int(binary.LittleEndian.Uint32(info[28:32]))
		uSuffix := int(binary.LittleEndian.Uint32(info[32:36]))
		basePath = readUTF16z(info, uBase)
		suffix = readUTF16z(info, uSuffix)
	} else {
		aBase := int(binary.LittleEndian.Uint32(info[16:20]))
		aSuffix := int(binary.LittleEndian.Uint32(info[24:28]))
		basePath = readANSIz(info, aBase)
		suffix = readANSIz(info, aSuffix)
	}

	path := basePath
	if suffix != "" {
		path = strings.TrimSuffix(basePath, `\`) + `\` + suffix
	}
	return path, off + size, nil
}

// parseStringData reads one counted string section at off.
func parseStringData(data []byte, off int, unicode bool) (string, int, error) {
	if off+2 > len(data) {
		return "", 0, fmt.Errorf("%w: truncated string data", ErrMalformed)
	}
	count := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	if unicode {
		end := off + count*2
		if end > len(data) {
			return "", 0, fmt.Errorf("%w: truncated unicode string", ErrMalformed)
		}
		u := make([]uint16, count)
		for i := 0; i < count; i++ {
			u[i] = binary.LittleEndian.Uint16(data[off+i*2 : off+i*2+2])
		}
		return string(utf16.Decode(u)), end, nil
	}
	end := off + count
	if end > len(data) {
		return "", 0, fmt.Errorf("%w: truncated string", ErrMalformed)
	}
	return decodeANSI(data[off:end]), end, nil
}

// findEnvTarget walks the extra data blocks starting at off looking for an
// EnvironmentVariableDataBlock and returns its unicode target string.
func findEnvTarget(data []byte, off int) string {
	for off+8 <= len(data) {
		size := int(binary.LittleEndian.Uint32(data[off : off+4]))
		if size < 8 || off+size > len(data) {
			return "" // terminal block or garbage
		}
		sig := binary.LittleEndian.Uint32(data[off+4 : off+8])
		if sig == sigEnvironmentVariableDataBlock && size >= 8+260 {
			// 260 ANSI bytes then, when present, 260 UTF-16 code units.
			if size >= 8+260+520 {
				if s := readUTF16z(data[off:off+size], 8+260); s != "" {
					return s
				}
			}
			return readANSIz(data[off:off+size], 8)
		}
		off += size
	}
	return ""
}

// expandWindowsEnv rewrites %VAR% references into ${VAR} so os.ExpandEnv can
// resolve them with the process environment.
func expandWindowsEnv(s string) string {
	var sb strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:start])
		sb.WriteString("${" + s[start+1:start+1+end] + "}")
		s = s[start+end+2:]
	}
}

// readANSIz reads a NUL-terminated single-byte string at off within b.
func readANSIz(b []byte, off int) string {
	if off <= 0 || off >= len(b) {
		return ""
	}
	end := off
	for end < len(b) && b[end] != 0 {
		end++
	}
	return decodeANSI(b[off:end])
}

// readUTF16z reads a NUL-terminated UTF-16LE string at off within b.
func readUTF16z(b []byte, off int) string {
	if off <= 0 || off >= len(b) {
		return ""
	}
	var u []uint16
	for i := off; i+1 < len(b); i += 2 {
		c := binary.LittleEndian.Uint16(b[i : i+2])
		if c == 0 {
			break
		}
		u = append(u, c)
	}
	return string(utf16.Decode(u))
}

// decodeANSI maps single-byte text into a string. Treated as Latin-1, which
// is correct for the ASCII paths this tool cares about and lossless for the
// rest.
func decodeANSI(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
