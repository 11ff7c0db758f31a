package main

import "github.com/storefront/microservices/cmd"

// @title                       Storefront API
// @version                     1.0
// @description                 User directory and product catalog behind a path-prefix gateway.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
