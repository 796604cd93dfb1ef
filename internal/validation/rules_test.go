package validation

import (
	"testing"

	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/model"
)

func TestAgeRule(t *testing.T) {
	rule := AgeRule{MaxAge: DefaultMaxAge}

	for _, age := range []int{-1, 0, 30, 41} {
		if err := rule.Check(model.Query{Name: "Alice", Age: age}); err != nil {
			t.Errorf("age %d: unexpected error %v", age, err)
		}
	}

	for _, age := range []int{42, 50, 1000} {
		err := rule.Check(model.Query{Name: "Bob", Age: age})
		if err == nil {
			t.Fatalf("age %d: expected error", age)
		}
		if err.Error() != "too old!" {
			t.Errorf("age %d: message %q", age, err.Error())
		}
		if errs.KindOf(err) != errs.KindRule {
			t.Errorf("age %d: kind %q", age, errs.KindOf(err))
		}
	}
}

func TestAgeRule_CustomMax(t *testing.T) {
	rule := AgeRule{MaxAge: 10}
	if err := rule.Check(model.Query{Name: "Kid", Age: 11}); err == nil {
		t.Error("expected 11 to fail with MaxAge 10")
	}
}
