package host

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// IWADMagic is the identification header of a main game data file.
var IWADMagic = []byte("IWAD")

// ErrInvalidIWAD is returned when the file passed with -iwad is missing,
// truncated or not an IWAD.
var ErrInvalidIWAD = errors.New("invalid IWAD file")

// ValidateIWAD checks that path exists and starts with the IWAD magic.
func ValidateIWAD(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIWAD, err)
	}
	defer f.Close()

	header := make([]byte, len(IWADMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: %s: header too short", ErrInvalidIWAD, path)
	}
	if !bytes.Equal(header, IWADMagic) {
		return fmt.Errorf("%w: %s: bad magic %q", ErrInvalidIWAD, path, header)
	}
	return nil
}
