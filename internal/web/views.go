package web

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

// StateView is a state prepared for rendering, cities sorted by name.
type StateView struct {
	ID     string
	Name   string
	Cities []CityView
}

type CityView struct {
	ID   string
	Name string
}
