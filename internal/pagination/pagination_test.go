package pagination

import "testing"

func TestPaginate(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		page  int
		limit int
		want  Page
	}{
		{
			name: "middle page", total: 95, page: 3, limit: 10,
			want: Page{Limit: 10, Offset: 20, TotalRecords: 95, TotalPages: 10, CurrentPage: 3, HasNext: true, HasPrevious: true},
		},
		{
			name: "first page", total: 95, page: 1, limit: 10,
			want: Page{Limit: 10, Offset: 0, TotalRecords: 95, TotalPages: 10, CurrentPage: 1, HasNext: true, HasPrevious: false},
		},
		{
			name: "last page", total: 95, page: 10, limit: 10,
			want: Page{Limit: 10, Offset: 90, TotalRecords: 95, TotalPages: 10, CurrentPage: 10, HasNext: false, HasPrevious: true},
		},
		{
			name: "past the end", total: 95, page: 12, limit: 10,
			want: Page{Limit: 10, Offset: 110, TotalRecords: 95, TotalPages: 10, CurrentPage: 12, HasNext: false, HasPrevious: true},
		},
		{
			name: "empty result set", total: 0, page: 1, limit: 20,
			want: Page{Limit: 20, Offset: 0, TotalRecords: 0, TotalPages: 0, CurrentPage: 1, HasNext: false, HasPrevious: false},
		},
		{
			name: "exact fit", total: 40, page: 2, limit: 20,
			want: Page{Limit: 20, Offset: 20, TotalRecords: 40, TotalPages: 2, CurrentPage: 2, HasNext: false, HasPrevious: true},
		},
		{
			name: "clamps zero page and limit", total: 5, page: 0, limit: 0,
			want: Page{Limit: 1, Offset: 0, TotalRecords: 5, TotalPages: 5, CurrentPage: 1, HasNext: true, HasPrevious: false},
		},
		{
			name: "clamps negative page", total: 10, page: -3, limit: 5,
			want: Page{Limit: 5, Offset: 0, TotalRecords: 10, TotalPages: 2, CurrentPage: 1, HasNext: true, HasPrevious: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(tc.total, tc.page, tc.limit)
			if got != tc.want {
				t.Errorf("Paginate(%d, %d, %d) = %+v, want %+v", tc.total, tc.page, tc.limit, got, tc.want)
			}
		})
	}
}
