package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"zero value", Pagination{}, Pagination{Page: 1, PageSize: DefaultPageSize}},
		{"negative page", Pagination{Page: -3, PageSize: 10}, Pagination{Page: 1, PageSize: 10}},
		{"oversized page size", Pagination{Page: 2, PageSize: 9999}, Pagination{Page: 2, PageSize: MaxPageSize}},
		{"valid passthrough", Pagination{Page: 4, PageSize: 25}, Pagination{Page: 4, PageSize: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 20}
	assert.Equal(t, 40, p.Offset())
}
