// Package mapper holds the generic glue between gorm rows and domain entities.
package mapper

import "fmt"

// Rows converts a page of rows into entities. Nil rows and rows the
// converter declines (nil, nil) are dropped; the first failure aborts the
// page and names the row's primary key.
func Rows[M any, E any](rows []*M, convert func(*M) (*E, error), key func(*M) uint) ([]*E, error) {
	if rows == nil {
		return nil, nil
	}

	out := make([]*E, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		e, err := convert(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", key(row), err)
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}
