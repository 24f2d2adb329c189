package writer

import "fmt"

// OutputExistsError reports an artifact path that already holds output.
type OutputExistsError struct {
	Path string
}

func (e *OutputExistsError) Error() string {
	return fmt.Sprintf("output already exists: %s", e.Path)
}
