package service

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nethesis/media-image-popup/models"
)

const (
	// tokenQuery is the query parameter carrying the derivative token.
	tokenQuery = "itok"
	tokenLen   = 8
)

// ImageStyler builds derivative URLs and dimensions for image styles.
type ImageStyler struct {
	urls     *FileURLGenerator
	tokenKey []byte
}

// NewImageStyler creates an ImageStyler. An empty tokenKey suppresses itok.
func NewImageStyler(urls *FileURLGenerator, tokenKey string) *ImageStyler {
	return &ImageStyler{urls: urls, tokenKey: []byte(tokenKey)}
}

// DerivativeURI returns the stream URI the styled copy of uri is stored at.
// The path keeps the source scheme; derivatives of read-only or scheme-less
// sources are stored in the public scheme.
func (s *ImageStyler) DerivativeURI(style *models.ImageStyle, uri string) string {
	source := models.URIScheme(uri)
	if source == "" {
		source = "public"
	}
	scheme := source
	if scheme != "public" && scheme != "private" {
		scheme = "public"
	}
	return fmt.Sprintf("%s://styles/%s/%s/%s", scheme, style.Name, source, models.URITarget(uri))
}

// BuildURL returns the absolute derivative URL of uri for style.
func (s *ImageStyler) BuildURL(baseURL string, style *models.ImageStyle, uri string) (string, error) {
	derivative, err := s.urls.AbsoluteURL(baseURL, s.DerivativeURI(style, uri))
	if err != nil {
		return "", err
	}
	if len(s.tokenKey) == 0 {
		return derivative, nil
	}

	token, err := s.PathToken(style, uri)
	if err != nil {
		return "", err
	}
	return derivative + "?" + url.Values{tokenQuery: []string{token}}.Encode(), nil
}

// PathToken returns the derivative token for uri: the first characters of the
// URL-safe base64 HMAC-SHA256 of "style:uri".
func (s *ImageStyler) PathToken(style *models.ImageStyle, uri string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(style.Name+":"+uri, s.tokenKey)
	if err != nil {
		return "", fmt.Errorf("sign derivative token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(sig)
	return token[:tokenLen], nil
}

// TransformDimensions applies the style's effects to width and height.
// Zero means unknown; once a dimension is unknown it stays unknown.
func (s *ImageStyler) TransformDimensions(style *models.ImageStyle, width, height int) (int, int) {
	for _, effect := range style.Effects {
		width, height = transformEffect(effect, width, height)
	}
	return width, height
}

func transformEffect(effect models.ImageEffect, width, height int) (int, int) {
	switch effect.ID {
	case models.EffectScale:
		if width == 0 || height == 0 {
			return width, height
		}
		return scaleDimensions(width, height, effect.Width, effect.Height, effect.Upscale)
	case models.EffectResize, models.EffectCrop, models.EffectScaleAndCrop:
		if width == 0 || height == 0 {
			return width, height
		}
		return effect.Width, effect.Height
	default:
		return 0, 0
	}
}

// scaleDimensions fits width x height into the target box keeping the aspect
// ratio. Without upscale an image is never made larger.
func scaleDimensions(width, height, targetW, targetH int, upscale bool) (int, int) {
	if targetW == 0 && targetH == 0 {
		return width, height
	}
	aspect := float64(height) / float64(width)
	if (targetW != 0 && targetH == 0) || (targetW != 0 && targetH != 0 && aspect < float64(targetH)/float64(targetW)) {
		targetH = int(math.Round(float64(targetW) * aspect))
	} else {
		targetW = int(math.Round(float64(targetH) / aspect))
	}
	if !upscale && (targetW >= width || targetH >= height) {
		return width, height
	}
	return targetW, targetH
}
