package form_test

import (
	"fmt"
	"strconv"

	"github.com/go-drift/formbuilder/pkg/form"
)

// This example shows how to build a form, validate it, and collect the
// committed values.
func ExampleForm() {
	signup := form.New(form.WithName("signup"))

	form.NewField[string](signup, "email",
		form.WithInitial[string]("ada@example.com"),
		form.WithValidators(func(v string, _ form.ValidationContext) string {
			if v == "" {
				return "email is required"
			}
			return ""
		}),
	)
	form.NewField[string](signup, "age",
		form.WithInitial[string]("36"),
		form.WithTransform[string](func(v string) form.Value {
			n, _ := strconv.ParseInt(v, 10, 64)
			return form.IntValue(n)
		}),
	)

	if signup.Validate() {
		values := signup.Save()
		for _, name := range signup.Names() {
			fmt.Printf("%s = %s\n", name, values[name])
		}
	}

	// Output:
	// email = ada@example.com
	// age = 36
}

// This example shows how to surface a server-side rejection on a field.
func ExampleField_Invalidate() {
	signup := form.New()
	username := form.NewField[string](signup, "username",
		form.WithInitial[string]("ada"),
	)

	// The server rejected the value after the form validated locally.
	username.Invalidate("username already taken")

	fmt.Println(username.ErrorText())
	fmt.Println(username.Node().HasFocus())

	// Output:
	// username already taken
	// true
}

// This example shows how to push values into registered fields.
func ExampleForm_PatchValues() {
	profile := form.New()
	city := form.NewField[string](profile, "city")

	profile.PatchValues(map[string]any{
		"city":    "berlin",
		"unknown": "ignored",
	})

	fmt.Println(city.Value())

	// Output:
	// berlin
}

// This example shows a standalone field with no aggregating form.
func ExampleNewField() {
	search := form.NewField[string](nil, "query",
		form.WithValidators(func(v string, _ form.ValidationContext) string {
			if len(v) < 3 {
				return "query too short"
			}
			return ""
		}),
	)
	defer search.Dispose()

	search.SetValue("go")
	if !search.Validate() {
		fmt.Println(search.ErrorText())
	}

	search.SetValue("go forms")
	fmt.Println(search.Validate())

	// Output:
	// query too short
	// true
}