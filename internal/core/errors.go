package core

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid registration made during the configuration
// phase. It is fatal: nothing renders after one occurs.
type ConfigError struct {
	Subject string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Subject, e.Reason)
}

// DataLoadError reports a data file that failed to parse during autoload.
// Fatal at startup: partially trusted data is worse than no data.
type DataLoadError struct {
	File string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load data file %s: %v", e.File, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// RenderError wraps any failure while rendering one template. It always
// names the offending template and the page whose render triggered it, so a
// failure inside a partial or layout still points back at the page.
type RenderError struct {
	Template string
	Page     string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render of template %q for page %q failed: %v", e.Template, e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// WrapRender attaches template/page identity to err unless it already
// carries it, keeping the innermost template as the reported one.
func WrapRender(template, page string, err error) error {
	if err == nil {
		return nil
	}
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Template: template, Page: page, Err: err}
}
