package param

import (
	"fmt"
	"os"
	"regexp"
)

// Callback transforms or validates a parameter's value at finalize
// time. It receives the parsed value and a snapshot of the sibling
// values in the same scope, and returns the value to record. Returning
// an error marks the parameter failed; siblings still finalize.
type Callback func(v Value, ns *Namespace) (Value, error)

// Validation helper factories. Each returns a Callback that passes the
// value through unchanged when it checks out.

// ValidateFile returns a callback that checks a path value names a
// file, optionally requiring it to exist.
func ValidateFile(mustExist bool) Callback {
	return func(v Value, _ *Namespace) (Value, error) {
		path, ok := v.Path()
		if !ok || path == "" {
			return v, fmt.Errorf("file path cannot be empty")
		}
		if mustExist {
			info, err := os.Stat(path)
			if os.IsNotExist(err) {
				return v, fmt.Errorf("file does not exist: %s", path)
			} else if err != nil {
				return v, fmt.Errorf("cannot access file %s: %v", path, err)
			} else if info.IsDir() {
				return v, fmt.Errorf("path is a directory: %s", path)
			}
		}
		return v, nil
	}
}

// ValidateDir returns a callback that checks a path value names a
// directory, optionally requiring it to exist.
func ValidateDir(mustExist bool) Callback {
	return func(v Value, _ *Namespace) (Value, error) {
		path, ok := v.Path()
		if !ok || path == "" {
			return v, fmt.Errorf("directory path cannot be empty")
		}
		if mustExist {
			info, err := os.Stat(path)
			if os.IsNotExist(err) {
				return v, fmt.Errorf("directory does not exist: %s", path)
			} else if err != nil {
				return v, fmt.Errorf("cannot access directory %s: %v", path, err)
			} else if !info.IsDir() {
				return v, fmt.Errorf("path is not a directory: %s", path)
			}
		}
		return v, nil
	}
}

// ValidateRegex returns a callback that matches string values against
// pattern. The pattern compiles once, at construction.
func ValidateRegex(pattern string) Callback {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return func(v Value, _ *Namespace) (Value, error) {
			return v, fmt.Errorf("invalid regex pattern %q: %v", pattern, err)
		}
	}
	return func(v Value, _ *Namespace) (Value, error) {
		s, ok := v.Str()
		if !ok {
			return v, fmt.Errorf("value %s is not a string", v)
		}
		if !regex.MatchString(s) {
			return v, fmt.Errorf("value %q does not match pattern %q", s, pattern)
		}
		return v, nil
	}
}

// ValidateRange returns a callback that bounds numeric values to
// [min, max] inclusive. Int values compare losslessly.
func ValidateRange(min, max float64) Callback {
	return func(v Value, _ *Namespace) (Value, error) {
		f, ok := v.Float()
		if !ok {
			return v, fmt.Errorf("value %s is not numeric", v)
		}
		if f < min || f > max {
			return v, fmt.Errorf("value %s is not in range [%v, %v]", v, min, max)
		}
		return v, nil
	}
}

// Transform lifts a plain value function into a Callback that ignores
// the sibling snapshot.
func Transform(fn func(Value) (Value, error)) Callback {
	return func(v Value, _ *Namespace) (Value, error) {
		return fn(v)
	}
}
