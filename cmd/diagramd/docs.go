package main

// General API documentation for swaggo. Regenerate docs/ with:
//
//	swag init -g cmd/diagramd/docs.go -o docs
//
// @title           diagramd API
// @version         1.0
// @description     Generates PlantUML diagram markup from natural-language prompts and renders it to images.
//
// @contact.name   diagramd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
