package pdf

import (
	"bytes"
	"fmt"
	"io/fs"
)

// colorProfile is a validated ICC profile.
type colorProfile struct {
	data       []byte
	identifier string
}

// loadColorProfile reads and checks an ICC profile: it must carry the
// 'acsp' signature and describe an RGB device.
func loadColorProfile(fsys fs.FS, name, identifier string) (colorProfile, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return colorProfile{}, fmt.Errorf("%w: %s: %v", ErrColorProfile, name, err)
	}
	if len(data) < 128 {
		return colorProfile{}, fmt.Errorf("%w: %s: header too short", ErrColorProfile, name)
	}
	if !bytes.Equal(data[36:40], []byte("acsp")) {
		return colorProfile{}, fmt.Errorf("%w: %s: missing acsp signature", ErrColorProfile, name)
	}
	if !bytes.Equal(data[16:20], []byte("RGB ")) {
		return colorProfile{}, fmt.Errorf("%w: %s: color space %q is not RGB", ErrColorProfile, name, data[16:20])
	}
	return colorProfile{data: data, identifier: identifier}, nil
}
