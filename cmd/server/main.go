package main

import "maidscentre/internal/app"

// @title                       Maids Centre API
// @version                     1.0
// @description                 Маркетплейс домашнего персонала: доступ к профилям, найм, оплаты, поддержка.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
