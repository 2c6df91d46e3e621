package duffel

import (
	"net/url"
	"strconv"
	"strings"
)

type param struct {
	key, value string
}

// Params is an ordered list of query parameters. Unlike url.Values, keys
// are encoded in the order they were added.
type Params struct {
	list []param
}

func (p *Params) Add(key, value string) {
	p.list = append(p.list, param{key, value})
}

// AddList adds values using the key[]=v1&key[]=v2 form.
func (p *Params) AddList(key string, values ...string) {
	for _, v := range values {
		p.Add(key+"[]", v)
	}
}

func (p *Params) AddInt(key string, n int) { p.Add(key, strconv.Itoa(n)) }

func (p *Params) AddBool(key string, b bool) { p.Add(key, strconv.FormatBool(b)) }

// Set replaces every value of key, keeping the position of the first one.
func (p *Params) Set(key, value string) {
	out := p.list[:0:0]
	found := false
	for _, kv := range p.list {
		if kv.key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			out = append(out, param{key, value})
			found = true
		}
	}
	if !found {
		out = append(out, param{key, value})
	}
	p.list = out
}

func (p Params) Get(key string) string {
	for _, kv := range p.list {
		if kv.key == key {
			return kv.value
		}
	}
	return ""
}

func (p Params) Len() int { return len(p.list) }

func (p Params) clone() Params {
	return Params{list: append([]param(nil), p.list...)}
}

func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p.list {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}
	return sb.String()
}
