package db

import (
	"fmt"
	"log"

	"research-assist/internal/config"
	"research-assist/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := AutoMigrate(DB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Println("数据库初始化成功")
	return nil
}

// AutoMigrate 迁移全部表结构，测试里也会对sqlite复用
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Experiment{},
		&model.ExperimentResult{},
		&model.Paper{},
		&model.WritingProject{},
		&model.Chapter{},
	)
}
