// file: main.go
package main

import (
	"PodCTF/database"
	"PodCTF/routes"
	"PodCTF/services"
	"log"
)

func main() {
	database.Connect()
	database.InitRedis()
	services.InitDocker()

	// 禁用自动迁移 (推荐)
	// database.MigrateTables()

	// Flag 比较器 / 题目渲染器注册表只在启动时填充一次
	services.RegisterBuiltinTypes()

	r := routes.SetupRouter()

	log.Println("Starting server on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
