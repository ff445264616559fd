package main

import (
	"github.com/Yardanz/tutor-site/config"
	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/routes"
	"github.com/Yardanz/tutor-site/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.AdminUser{}, &models.Post{}, &models.Attachment{})
	files := utils.NewFileStore(cfg.UploadsDir)

	r := routes.SetupRouter(db, files)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.Serve(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
