package foreign

import (
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeYAML writes the archive as a YAML design file.
func EncodeYAML(archive *Archive, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(archive)
}

// DecodeYAML reads an archive from a YAML design file.
func DecodeYAML(r io.Reader) (*Archive, error) {
	var archive Archive
	if err := yaml.NewDecoder(r).Decode(&archive); err != nil {
		return nil, err
	}
	return &archive, nil
}
