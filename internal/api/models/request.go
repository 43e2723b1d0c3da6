package models

// ActionDomainQuery is the query string of GET /api/v1/action-domain.
// Omitted parameters fall back to the server's default learning vector.
type ActionDomainQuery struct {
	M1     *int     `form:"m1"`
	M2     *int     `form:"m2"`
	M3     *int     `form:"m3"`
	RIMaxL *float64 `form:"rimaxl"`
	RIMaxU *float64 `form:"rimaxu"`
	RIMinC *float64 `form:"riminc"`
	Format string   `form:"format"` // "json" (default) or "csv"
}

// UploadOptions are the query parameters of POST /api/v1/cases. The request
// body is the raw case text.
type UploadOptions struct {
	Source string `form:"source"`
	// Refresh forces a new parse even when identical text is cached.
	Refresh bool `form:"refresh"`
	// Brief leaves the parsed case out of the response.
	Brief bool `form:"brief"`
}
