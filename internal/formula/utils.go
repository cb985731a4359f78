package formula

import (
	"go/ast"
	"reflect"
	"unsafe"
)

// unexportValueOf creates a reflect.Value that allows access to unexported fields.
func unexportValueOf(field reflect.Value) reflect.Value {
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}

// valueOf retrieves the value of a field by name from a struct element,
// exported or not.
func valueOf(elem reflect.Value, name string) any {
	field := elem.FieldByName(name)
	if ast.IsExported(name) {
		return field.Interface()
	}
	return unexportValueOf(field).Interface()
}

// setValue sets the value of a field by name in a struct element.
// A nil value stores the zero value of the field's type.
func setValue(elem reflect.Value, name string, value any) {
	field := elem.FieldByName(name)
	if !ast.IsExported(name) {
		field = unexportValueOf(field)
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return
	}
	field.Set(reflect.ValueOf(value))
}
