// Package request turns request bodies into typed values before handler logic runs
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/schema"
)

// ErrInvalidBody is returned for any body that cannot be decoded
var ErrInvalidBody = errors.New("Invalid JSON format")

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	// Form fields share the json names of the request structs
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

// Decode fills dst from the request body.
// application/json bodies are decoded as JSON, anything else is parsed as a form.
func Decode(r *http.Request, dst any) error {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
