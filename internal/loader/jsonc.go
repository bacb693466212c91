package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"

	"punch-payroll/internal/domain"
)

// StripComments превращает JSONC в обычный JSON. Комментарии и висячие запятые заменяются
// пробелами, поэтому смещения и номера строк остаются как в src. Сам src не меняется.
func StripComments(src []byte) ([]byte, error) {
	buf := make([]byte, len(src), len(src)+1)
	copy(buf, src)

	// hujson требует перевод строки после // даже в конце входа
	padded := !bytes.HasSuffix(buf, []byte{'\n'})
	if padded {
		buf = append(buf, '\n')
	}

	out, err := hujson.Standardize(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedInput, strings.TrimPrefix(err.Error(), "hujson: "))
	}
	if padded {
		out = out[:len(out)-1]
	}
	return out, nil
}

func lineOf(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.Count(src[:offset], []byte{'\n'}) + 1
}
