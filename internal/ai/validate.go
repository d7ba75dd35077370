package ai

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// CompositionError lists every way a result departs from the 7 song, 5:2
// contract the provider was asked to honour.
type CompositionError struct {
	Issues []string
}

func (e *CompositionError) Error() string {
	return "composition: " + strings.Join(e.Issues, "; ")
}

// CheckComposition validates required fields, the song count and the
// domestic/international split. It returns nil for a conforming result.
func CheckComposition(res *RecommendationResult) error {
	if res == nil {
		return &CompositionError{Issues: []string{"result is nil"}}
	}
	var issues []string
	if err := getValidator().Struct(res); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			issues = append(issues, fmt.Sprintf("%s is %s", fieldPath(fe), fe.Tag()))
		}
	}
	if len(res.Songs) != SongCount {
		issues = append(issues, fmt.Sprintf("expected %d songs, got %d", SongCount, len(res.Songs)))
	}
	korean := 0
	for _, s := range res.Songs {
		if s.IsKorean {
			korean++
		}
	}
	if korean != KoreanSongCount || len(res.Songs)-korean != ForeignSongCount {
		issues = append(issues, fmt.Sprintf("expected %d korean / %d international, got %d / %d",
			KoreanSongCount, ForeignSongCount, korean, len(res.Songs)-korean))
	}
	if len(issues) == 0 {
		return nil
	}
	return &CompositionError{Issues: issues}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
