package querycache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_StructurallyEqualParams(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	a.Set("search", "ann")
	a.Set("role", "ADMIN")

	b := url.Values{}
	b.Set("role", "ADMIN")
	b.Set("search", "ann")
	b.Set("page", "1")

	ka := NewKey("employees", "list").With(a)
	kb := NewKey("employees", "list").With(b)

	assert.True(t, ka.Equal(kb))
	assert.Equal(t, ka.String(), kb.String())
	assert.Equal(t, "employees/list?page=1&role=ADMIN&search=ann", ka.String())
}

func TestKey_HasPrefix(t *testing.T) {
	list := NewKey("employees", "list").With(url.Values{"page": {"2"}})
	detail := NewKey("employees", "detail", "e-1")
	other := NewKey("attendance", "list")

	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{"family matches list", list, NewKey("employees"), true},
		{"list prefix matches list", list, NewKey("employees", "list"), true},
		{"list prefix skips detail", detail, NewKey("employees", "list"), false},
		{"exact detail", detail, NewKey("employees", "detail", "e-1"), true},
		{"other detail", detail, NewKey("employees", "detail", "e-2"), false},
		{"other family", other, NewKey("employees"), false},
		{"params must match exactly", list, NewKey("employees", "list").With(url.Values{"page": {"1"}}), false},
		{"longer prefix", NewKey("employees"), NewKey("employees", "list"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestKey_Topic(t *testing.T) {
	assert.Equal(t, "employees", NewKey("employees", "list").Topic())
	assert.Equal(t, "", NewKey().Topic())
}

func TestKey_FamilyIsCopied(t *testing.T) {
	family := []string{"employees", "list"}
	k := NewKey(family...)
	family[0] = "changed"
	assert.Equal(t, []string{"employees", "list"}, k.Family())
}
