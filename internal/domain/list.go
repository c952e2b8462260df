package domain

// List is the paginated envelope used by every list endpoint.
// More reports whether another page exists; pages are 1-based.
type List[T any] struct {
	List []T  `json:"list"`
	Page int  `json:"page"`
	RPP  int  `json:"rpp"`
	More bool `json:"more"`
}

const (
	DefaultRPP = 12
	SearchRPP  = 50
	MaxRPP     = 100
)
