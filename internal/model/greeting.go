// Package model holds the plain data types that flow through the
// /hello request pipeline.
package model

import "fmt"

// Query is the typed form of the /hello query string.
//
// It is only ever built by validation.DecodeQuery, so a Query value always
// has a non-empty Name and an Age parsed from an integer string.
type Query struct {
	Name string
	Age  int
}

// Todo is the part of the downstream lookup response the service consumes.
type Todo struct {
	Title string `json:"title"`
}

// Greeting is the success payload rendered as the response body.
type Greeting struct {
	Query Query
	Todo  *Todo
}

// String renders the greeting text.
//
//	Hello Alice!
//	Hello Alice, title: delectus aut autem!
func (g Greeting) String() string {
	if g.Todo != nil {
		return fmt.Sprintf("Hello %s, title: %s!", g.Query.Name, g.Todo.Title)
	}
	return fmt.Sprintf("Hello %s!", g.Query.Name)
}
