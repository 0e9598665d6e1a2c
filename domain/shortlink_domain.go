package domain

import "errors"

var (
	MessageSuccessGetLink = "success get short link"
	MessageFailedGetLink  = "failed to get short link"

	ErrShortLinkNotFound  = errors.New("short link not found")
	ErrShortLinkCollision = errors.New("could not allocate a free short code")
)

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
