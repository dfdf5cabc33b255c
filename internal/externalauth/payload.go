package externalauth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var ErrInvalidPayload = errors.New("invalid login widget payload")

// ParsePayload reads the widget's redirect query. The signature is checked by
// the API, so only presence and shape are validated here.
func ParsePayload(q url.Values) (Payload, error) {
	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: id", ErrInvalidPayload)
	}
	authDate, err := strconv.ParseInt(q.Get("auth_date"), 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: auth_date", ErrInvalidPayload)
	}
	hash := q.Get("hash")
	if hash == "" {
		return Payload{}, fmt.Errorf("%w: hash", ErrInvalidPayload)
	}

	return Payload{
		ID:        id,
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Username:  q.Get("username"),
		PhotoURL:  q.Get("photo_url"),
		AuthDate:  authDate,
		Hash:      hash,
	}, nil
}
