package container

import (
	"reflect"
	"strconv"
	"sync"
)

var typeKeyCache sync.Map

// TypeKey returns the lookup key used for T when no identifier is given.
//
//	container.TypeKey[*Networker]()     // "*github.com/acme/app/network.Networker"
//	container.TypeKey[NetworkService]() // "github.com/acme/app/network.NetworkService"
func TypeKey[T any]() string {
	return typeKeyOf(typeOf[T]())
}

// TypeKeyOf returns the lookup key of v's dynamic type.
func TypeKeyOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return typeKeyOf(reflect.TypeOf(v))
}

// typeOf returns the static type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func typeKeyOf(t reflect.Type) string {
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.Name() == "" {
			// unnamed struct or interface literal
			return t.String()
		}
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}
}

// assignable reports whether v can be returned as a value of type t.
func assignable(v any, t reflect.Type) bool {
	if t == nil {
		return true
	}
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}
