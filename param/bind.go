package param

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Decode copies parsed results into a struct. Fields resolve by the
// param tag first, then the json tag, then the lowercased field name;
// a tag of "-" skips the field. Nested structs consume namespace
// entries, slices consume list entries, and missing keys leave the
// field untouched. Conversion failures aggregate into one error.
//
//	var cfg struct {
//	    NCores  int      `param:"ncores"`
//	    Infiles []string `param:"infile"`
//	    Config  struct {
//	        Depth int
//	    }
//	}
//	err := ns.Decode(&cfg)
func (n *Namespace) Decode(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to struct")
	}
	var errs *multierror.Error
	n.decodeStruct(rv.Elem(), &errs)
	return errs.ErrorOrNil()
}

func (n *Namespace) decodeStruct(sv reflect.Value, errs **multierror.Error) {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		fv := sv.Field(i)
		if !field.IsExported() || !fv.CanSet() {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}
		v, ok := n.Get(key)
		if !ok {
			continue
		}
		if err := assignValue(fv, v); err != nil {
			*errs = multierror.Append(*errs, fmt.Errorf("failed to set field %s: %w", field.Name, err))
		}
	}
}

// fieldKey resolves the namespace key for a struct field.
// Priority: param tag > json tag > lowercased field name. A tag with
// only options, like `json:",omitempty"`, falls through.
func fieldKey(field reflect.StructField) string {
	for _, tag := range []string{"param", "json"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

func assignValue(fv reflect.Value, v Value) error {
	if fv.Kind() == reflect.Ptr {
		if v.IsNil() {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return assignValue(fv.Elem(), v)
	}

	if sub, ok := v.Namespace(); ok {
		switch fv.Kind() {
		case reflect.Struct:
			return sub.Decode(fv.Addr().Interface())
		case reflect.Map:
			return assignMap(fv, FromAny(sub.Interface()))
		case reflect.Interface:
			if fv.Type().NumMethod() == 0 {
				fv.Set(reflect.ValueOf(sub.Interface()))
				return nil
			}
		}
		return fmt.Errorf("cannot decode namespace into %s", fv.Type())
	}

	if items, ok := v.List(); ok && fv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			if err := assignValue(out.Index(i), item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		fv.Set(out)
		return nil
	}

	if _, ok := v.Map(); ok && fv.Kind() == reflect.Map {
		return assignMap(fv, v)
	}

	switch fv.Kind() {
	case reflect.Bool:
		if b, ok := v.Bool(); ok {
			fv.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := v.Int(); ok {
			fv.SetInt(int64(i))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, ok := v.Int(); ok && i >= 0 {
			fv.SetUint(uint64(i))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := v.Float(); ok {
			fv.SetFloat(f)
			return nil
		}
	case reflect.String:
		if s, ok := v.Str(); ok {
			fv.SetString(s)
			return nil
		}
	case reflect.Interface:
		if fv.Type().NumMethod() == 0 {
			raw := v.Interface()
			if raw == nil {
				fv.Set(reflect.Zero(fv.Type()))
			} else {
				fv.Set(reflect.ValueOf(raw))
			}
			return nil
		}
	}
	if v.IsNil() {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot decode %s into %s", v.Kind(), fv.Type())
}

func assignMap(fv reflect.Value, v Value) error {
	entries, ok := v.Map()
	if !ok {
		return fmt.Errorf("cannot decode %s into %s", v.Kind(), fv.Type())
	}
	if fv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("cannot decode map into %s: key type must be string", fv.Type())
	}
	out := reflect.MakeMapWithSize(fv.Type(), len(entries))
	elem := fv.Type().Elem()
	for k, item := range entries {
		slot := reflect.New(elem).Elem()
		if err := assignValue(slot, item); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		out.SetMapIndex(reflect.ValueOf(k), slot)
	}
	fv.Set(out)
	return nil
}
