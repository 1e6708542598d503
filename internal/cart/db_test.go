package cart

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/relovedmarket/reloved-backend/pkg/db"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Item{}, &models.CartRecord{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db.NewWithConn(conn)
}
