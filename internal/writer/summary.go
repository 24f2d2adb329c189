package writer

import "path/filepath"

// WriteRunSummary writes the run report as plain JSON alongside the vector
// artifacts. Returns the path written.
func (w *Writer) WriteRunSummary(name string, report any) (string, error) {
	path := filepath.Join(w.cfg.Dir, name+".json")
	if err := w.guard(path); err != nil {
		return "", err
	}

	if err := writeJSON(path, report); err != nil {
		return "", err
	}

	w.logger.Info("wrote run summary", "path", path)
	return path, nil
}
