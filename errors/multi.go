package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided, nil is returned. If exactly one error is not nil,
// it is returned as it is. Otherwise a multi error holding all of them is
// returned. A multi error reports the ABCI code of its first error and is of
// every kind any of its errors is.
func Append(errs ...error) error {
	var res []error
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			res = append(res, m.errs...)
			continue
		}
		res = append(res, err)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return &multiErr{errs: res}
	}
}

type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, err := range m.errs {
		msgs[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m.errs), strings.Join(msgs, "\n\t"))
}

// ABCICode returns the code of the first error, following the fail fast
// approach of a single error response.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}
