package config

import "fmt"

// rawBytesProvider feeds embedded bytes to koanf
type rawBytesProvider struct {
	bytes []byte
}

// ReadBytes returns the raw bytes
func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

// Read is not supported for raw bytes
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawbytes provider does not support Read")
}
