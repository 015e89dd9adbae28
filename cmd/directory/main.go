// Package main is the entry point for the employee directory binary.
//
// @title                       Employee Directory API
// @version                     1.0
// @description                 Admin accounts and employee records behind bearer-token auth.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and JWT token.
package main

import "os"

func main() {
	os.Exit(Execute())
}
