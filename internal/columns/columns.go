// Package columns binds the logical fields of an attribution report to the
// concrete header names found in uploaded files.
package columns

import (
	"strings"

	"github.com/KaramelBytes/orderlens/internal/parser"
)

// Role is a logical field of an attribution report.
type Role int

const (
	OrderID Role = iota
	Quantity
	Creator
	ContentID
	ProductName
	SKU
	numRoles
)

var roleKeys = [numRoles]string{
	OrderID:     "order_id",
	Quantity:    "quantity",
	Creator:     "creator",
	ContentID:   "content_id",
	ProductName: "product_name",
	SKU:         "sku",
}

// String returns the configuration key of the role.
func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return "unknown"
	}
	return roleKeys[r]
}

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, 0, numRoles)
	for r := Role(0); r < numRoles; r++ {
		out = append(out, r)
	}
	return out
}

// ParseRole maps a configuration key back to its Role.
func ParseRole(key string) (Role, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for r := Role(0); r < numRoles; r++ {
		if roleKeys[r] == key {
			return r, true
		}
	}
	return 0, false
}

// Fragments holds the substring searched for in header names, per role.
type Fragments map[Role]string

// DefaultFragments returns the labels used by the marketplace's affiliate
// order export.
func DefaultFragments() Fragments {
	return Fragments{
		OrderID:     "订单 ID",
		Quantity:    "下单件数",
		Creator:     "达人用户名",
		ContentID:   "内容ID",
		ProductName: "商品名称",
		SKU:         "Seller Sku",
	}
}

// FragmentsFromMap overlays non-empty entries keyed by Role.String() on the
// defaults. Unknown keys are ignored.
func FragmentsFromMap(m map[string]string) Fragments {
	f := DefaultFragments()
	for k, v := range m {
		r, ok := ParseRole(k)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		f[r] = v
	}
	return f
}

// Resolved is the binding of every role to a header name.
type Resolved struct {
	names    [numRoles]string
	fallback [numRoles]bool
}

// Resolve binds each role to the first header containing its fragment. A role
// with no match falls back to the fragment itself; lookups against it then
// miss on every row instead of failing.
func Resolve(headers []string, frags Fragments) Resolved {
	defaults := DefaultFragments()
	var res Resolved
	for r := Role(0); r < numRoles; r++ {
		frag, ok := frags[r]
		if !ok || frag == "" {
			frag = defaults[r]
		}
		res.names[r] = frag
		res.fallback[r] = true
		for _, h := range headers {
			if strings.Contains(h, frag) {
				res.names[r] = h
				res.fallback[r] = false
				break
			}
		}
	}
	return res
}

// Column returns the header name bound to role.
func (r Resolved) Column(role Role) string {
	if role < 0 || role >= numRoles {
		return ""
	}
	return r.names[role]
}

// Value reads role from row.
func (r Resolved) Value(row parser.Row, role Role) string {
	return row.Get(r.Column(role))
}

// Missing lists the roles that matched no header.
func (r Resolved) Missing() []Role {
	var out []Role
	for role := Role(0); role < numRoles; role++ {
		if r.fallback[role] {
			out = append(out, role)
		}
	}
	return out
}

// Map returns the bindings keyed by role name, for display.
func (r Resolved) Map() map[string]string {
	out := make(map[string]string, numRoles)
	for role := Role(0); role < numRoles; role++ {
		out[role.String()] = r.names[role]
	}
	return out
}
