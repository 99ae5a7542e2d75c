package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Resource is a named collection exposed over HTTP.
type Resource struct {
	// Name is both the collection name and the route segment.
	Name string
	// Singular is used in per-record messages ("event" -> "Event not found").
	Singular string
	// ReadOnly collections have no lifecycle fields and only support listing.
	ReadOnly bool
}

// Resources lists every collection served by the API.
var Resources = []Resource{
	{Name: "events", Singular: "event"},
	{Name: "recent", Singular: "recent item"},
	{Name: "services", Singular: "service"},
	{Name: "pricing", Singular: "pricing plan", ReadOnly: true},
	{Name: "reviews", Singular: "review", ReadOnly: true},
	{Name: "featured", Singular: "featured item", ReadOnly: true},
}

// MutableResources returns the resources that support the full CRUD set.
func MutableResources() []Resource {
	return lo.Filter(Resources, func(r Resource, _ int) bool { return !r.ReadOnly })
}

// ReadOnlyResources returns the list-only resources.
func ReadOnlyResources() []Resource {
	return lo.Filter(Resources, func(r Resource, _ int) bool { return r.ReadOnly })
}

// FindResource looks a resource up by name.
func FindResource(name string) (Resource, bool) {
	return lo.Find(Resources, func(r Resource) bool { return r.Name == name })
}

// EmptyMessage is returned when a listing matched nothing.
func (r Resource) EmptyMessage() string {
	return "No " + r.Name + " found"
}

func (r Resource) NotFoundMessage() string {
	return r.label() + " not found"
}

func (r Resource) CreatedMessage() string {
	return r.label() + " created successfully"
}

func (r Resource) UpdatedMessage() string {
	return r.label() + " updated successfully"
}

func (r Resource) DeletedMessage() string {
	return r.label() + " deleted successfully"
}

// label capitalizes the first letter of Singular.
func (r Resource) label() string {
	first, size := utf8.DecodeRuneInString(r.Singular)
	if first == utf8.RuneError {
		return strings.TrimSpace(r.Singular)
	}
	return string(unicode.ToUpper(first)) + r.Singular[size:]
}
