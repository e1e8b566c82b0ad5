package environment

import (
	"bufio"
	"io"
	"net/textproto"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxMetadataBytes bounds how much of a metadata file is read. Headers come
// first, so long descriptions past this point are never needed.
const maxMetadataBytes = 4 << 20

// ReadMetadataFile parses a METADATA or PKG-INFO file.
func ReadMetadataFile(path string) (Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return Distribution{}, errors.Wrap(err, "failed to open metadata")
	}
	defer func() { _ = f.Close() }()

	d, err := ParseMetadata(f)
	if err != nil {
		return Distribution{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	return d, nil
}

// ParseMetadata reads the header block of core metadata. The description
// body after the first blank line is ignored.
func ParseMetadata(r io.Reader) (Distribution, error) {
	tp := textproto.NewReader(bufio.NewReader(io.LimitReader(r, maxMetadataBytes)))
	header, err := tp.ReadMIMEHeader()
	if err != nil && !(errors.Is(err, io.EOF) && len(header) > 0) {
		return Distribution{}, errors.Wrap(err, "invalid metadata header")
	}

	d := Distribution{
		Name:        strings.TrimSpace(header.Get("Name")),
		Version:     strings.TrimSpace(header.Get("Version")),
		Classifiers: trimAll(header.Values("Classifier")),
	}
	if values := header.Values("Requires-Python"); len(values) > 0 {
		spec := strings.TrimSpace(values[0])
		d.RequiresPython = &spec
	}
	return d, nil
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
