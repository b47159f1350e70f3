// Package atlas is the HTTP client for the Chicago Health Atlas API.
//
// Two endpoints are used: api/v1/places for the community area roster
// and api/v1/topic_info/{place}/{topic} for per-area indicator
// readings. Requests are strictly sequential and any transport failure
// or non-200 status aborts the run; only an empty area_data list is
// treated as a missing value rather than an error.
package atlas
