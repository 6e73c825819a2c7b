package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Query holds only parameters that were actually supplied; empty values are never sent.
type Query url.Values

func (q Query) Set(key, value string) Query {
	if strings.TrimSpace(value) == "" {
		return q
	}
	url.Values(q).Set(key, value)
	return q
}

func (q Query) SetInt(key string, v int) Query {
	if v <= 0 {
		return q
	}
	url.Values(q).Set(key, strconv.Itoa(v))
	return q
}

func (q Query) Encode() string {
	return url.Values(q).Encode()
}
