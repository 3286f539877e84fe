package domain

import (
	"net/http"

	"github.com/samber/lo"
)

// Method is an HTTP method name as written in an endpoint declaration.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
)

// Methods is the fixed set of methods an endpoint may be registered under.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodDelete,
	MethodPut,
	MethodPatch,
}

// Valid reports whether m belongs to Methods. Matching is case-sensitive.
func (m Method) Valid() bool {
	return lo.Contains(Methods, m)
}

func (m Method) String() string { return string(m) }
