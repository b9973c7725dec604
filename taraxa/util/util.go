package util

import (
	"reflect"
)

type Any = interface{}

func IsReallyNil(value Any) bool {
	if value == nil {
		return true
	}
	switch reflectValue := reflect.ValueOf(value); reflectValue.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return reflectValue.IsNil()
	default:
		return false
	}
}

func PanicIfNotNil(value Any) {
	if !IsReallyNil(value) {
		panic(value)
	}
}
