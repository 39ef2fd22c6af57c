// Package naver implements the provider ports against the Naver open API.
//
// Two endpoints are used:
//
//   - GET  /v1/search/shop.json  shopping search, up to 100 listings per call
//   - POST /v1/datalab/search    relative search volume, up to 5 keyword groups per call
//
// Both are authenticated with the X-Naver-Client-Id and X-Naver-Client-Secret
// headers. Calls are serialized through a weighted semaphore of size one and,
// when Config.RateLimit is set, paced by an in-memory rate limiter.
//
// HTTP statuses map to the core error types: 401 and 403 to ProviderAuthError,
// 429 to ProviderRateLimitError, 400 to ValidationError, everything else
// (including transport failures and timeouts) to ProviderTransientError.
// Bodies that do not decode become DataShapeError.
//
// # Usage
//
//	cfg := provider.ConfigFromEnv()
//	p, err := naver.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	products, err := p.ProductSearcher().SearchProducts(ctx, provider.SearchRequest{Query: "크림"})
package naver
