package utils

import (
	"errors"
	"github.com/labstack/echo/v4"
	"reflect"
	"slotly/cmd/internal/domain/entity"
	"strings"
	"time"
)

// IdentityCtxKey is where the authorization guard leaves the verified caller
// inside the echo context.
const IdentityCtxKey = "identity"

var ErrNoIdentity = errors.New("no verified identity on request")

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// ParseTokenDataCtx returns the identity attached by the authorization guard
// for this request only.
func ParseTokenDataCtx(c echo.Context) (*entity.Identity, error) {
	identity, ok := c.Get(IdentityCtxKey).(*entity.Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

// TrimFields trims surrounding whitespace from every exported string field
// of the struct o points to. Fields tagged `trim:"-"` are left alone.
func TrimFields(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		panic("utils: TrimFields expects a pointer to a struct")
	}
	v = v.Elem()

	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("trim") == "-" {
			continue
		}
		if field := v.Field(i); field.Kind() == reflect.String {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
