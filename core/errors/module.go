package errors

import stderrors "errors"

// ModuleError is a failure reported by a runtime module. Module and Kind
// survive any amount of wrapping, so an observer holding only the final error
// can still tell which module refused the call and why.
type ModuleError struct {
	Module  string
	Kind    string
	Message string
}

// NewModuleError declares a module error. Modules keep the returned pointer
// as a package-level sentinel and compare against it with errors.Is.
func NewModuleError(module, kind, message string) *ModuleError {
	return &ModuleError{Module: module, Kind: kind, Message: message}
}

func (e *ModuleError) Error() string {
	return e.Module + ": " + e.Message
}

// KindOf extracts the module and kind carried by err. ok is false when err
// does not wrap a ModuleError.
func KindOf(err error) (module, kind string, ok bool) {
	var me *ModuleError
	if !stderrors.As(err, &me) {
		return "", "", false
	}
	return me.Module, me.Kind, true
}
