package i18n

import (
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ko"
	ut "github.com/go-playground/universal-translator"
)

// UT falls back to English; Korean is the primary audience.
var UT = ut.New(en.New(), en.New(), ko.New())
