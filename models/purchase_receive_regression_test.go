package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func setupIntegrationEnv(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "inventory_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	// Ledger rows and approvals need an acting user.
	return utils.SetUserIdInContext(context.Background(), 7)
}

func seedSupplier(t *testing.T, ctx context.Context, name string) *models.Supplier {
	t.Helper()
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name:          name,
		ContactPerson: "Pat Vendor",
		Email:         "orders@acme-parts.test",
		Phone:         "650-253-0000",
	})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	return supplier
}

func seedItem(t *testing.T, ctx context.Context, sku string, stock int, reorderPoint int) *models.Inventory {
	t.Helper()
	item, err := models.CreateInventory(ctx, &models.NewInventory{
		Name:         "Item " + sku,
		Sku:          sku,
		Category:     "parts",
		CostPrice:    decimal.NewFromInt(8),
		SellingPrice: decimal.NewFromInt(15),
		CurrentStock: stock,
		ReorderPoint: &reorderPoint,
	})
	if err != nil {
		t.Fatalf("CreateInventory(%s): %v", sku, err)
	}
	return item
}

func fetchStock(t *testing.T, ctx context.Context, id int) int {
	t.Helper()
	var item models.Inventory
	if err := config.GetDB().WithContext(ctx).First(&item, id).Error; err != nil {
		t.Fatalf("fetch inventory %d: %v", id, err)
	}
	return item.CurrentStock
}

func countPurchaseLedgerRows(t *testing.T, ctx context.Context, purchaseId int) int64 {
	t.Helper()
	var n int64
	if err := config.GetDB().WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND reference_id = ?", models.TransactionTypePurchase, purchaseId).
		Count(&n).Error; err != nil {
		t.Fatalf("count ledger rows: %v", err)
	}
	return n
}

func TestPurchaseReceiveAppliesStockExactlyOnce(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	supplier := seedSupplier(t, ctx, "Acme Parts")
	itemA := seedItem(t, ctx, "RCV-A-001", 0, 20)
	itemB := seedItem(t, ctx, "RCV-B-001", 0, 20)

	po, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseItem{
			{InventoryId: itemA.ID, Quantity: 5, UnitCost: decimalPtr(decimal.NewFromInt(10))},
			{InventoryId: itemB.ID, Quantity: 2, UnitCost: decimalPtr(decimal.NewFromInt(50))},
		},
		Tax:      decimal.NewFromInt(5),
		Shipping: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if po.Subtotal.Cmp(decimal.NewFromInt(150)) != 0 || po.Total.Cmp(decimal.NewFromInt(165)) != 0 {
		t.Fatalf("expected subtotal=150 total=165; got %s / %s", po.Subtotal, po.Total)
	}
	if po.PurchaseNumber != models.FormatPurchaseNumber(po.SequenceNo) {
		t.Fatalf("purchase number %q does not match sequence %d", po.PurchaseNumber, po.SequenceNo)
	}

	received, err := models.UpdatePurchaseStatus(ctx, po.ID, models.PurchaseStatusReceived)
	if err != nil {
		t.Fatalf("UpdatePurchaseStatus(received): %v", err)
	}
	if received.Status != models.PurchaseStatusReceived || received.ReceivedDate == nil {
		t.Fatalf("expected received with date; got %+v", received)
	}
	if received.ApprovedBy == nil || *received.ApprovedBy != 7 {
		t.Fatalf("expected approved_by=7; got %v", received.ApprovedBy)
	}
	if got := fetchStock(t, ctx, itemA.ID); got != 5 {
		t.Fatalf("item A stock expected 5; got %d", got)
	}
	if got := fetchStock(t, ctx, itemB.ID); got != 2 {
		t.Fatalf("item B stock expected 2; got %d", got)
	}
	if n := countPurchaseLedgerRows(t, ctx, po.ID); n != 2 {
		t.Fatalf("expected 2 purchase ledger rows; got %d", n)
	}
	var total decimal.Decimal
	if err := config.GetDB().WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND reference_id = ? AND inventory_id = ?", models.TransactionTypePurchase, po.ID, itemB.ID).
		Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error; err != nil {
		t.Fatalf("sum item B ledger: %v", err)
	}
	if total.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("item B ledger total expected 100; got %s", total)
	}

	// A second receive must not move stock again.
	if _, err := models.UpdatePurchaseStatus(ctx, po.ID, models.PurchaseStatusReceived); !errors.Is(err, utils.ErrorInvalidTransition) {
		t.Fatalf("second receive: expected invalid transition; got %v", err)
	}
	if got := fetchStock(t, ctx, itemA.ID); got != 5 {
		t.Fatalf("item A stock changed on repeat receive; got %d", got)
	}
	if n := countPurchaseLedgerRows(t, ctx, po.ID); n != 2 {
		t.Fatalf("repeat receive appended ledger rows; got %d", n)
	}
}

func TestPurchaseReceiveSkipsDanglingLineAndAppliesSiblings(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	supplier := seedSupplier(t, ctx, "Acme Parts")
	itemA := seedItem(t, ctx, "SKP-A-001", 3, 20)
	itemB := seedItem(t, ctx, "SKP-B-001", 0, 20)

	po, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseItem{
			{InventoryId: itemA.ID, Quantity: 4, UnitCost: decimalPtr(decimal.NewFromInt(10))},
			{InventoryId: itemB.ID, Quantity: 9, UnitCost: decimalPtr(decimal.NewFromInt(10))},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	// Item B disappears between ordering and receipt.
	if _, err := models.DeleteInventory(ctx, itemB.ID); err != nil {
		t.Fatalf("DeleteInventory: %v", err)
	}

	received, err := models.UpdatePurchaseStatus(ctx, po.ID, models.PurchaseStatusReceived)
	if err != nil {
		t.Fatalf("receive with dangling line must not fail: %v", err)
	}
	if received.Status != models.PurchaseStatusReceived {
		t.Fatalf("expected received; got %s", received.Status)
	}
	if got := fetchStock(t, ctx, itemA.ID); got != 7 {
		t.Fatalf("sibling line not applied; item A stock expected 7, got %d", got)
	}
	if n := countPurchaseLedgerRows(t, ctx, po.ID); n != 1 {
		t.Fatalf("expected 1 ledger row for the surviving line; got %d", n)
	}
}

func TestDashboardLowStockCountIncludesZeroStockItems(t *testing.T) {
	ctx := setupIntegrationEnv(t)

	seedItem(t, ctx, "DSH-OUT-001", 0, 20)
	seedItem(t, ctx, "DSH-LOW-001", 5, 20)
	seedItem(t, ctx, "DSH-OK-001", 50, 20)

	summary, err := models.GetDashboardSummary(ctx)
	if err != nil {
		t.Fatalf("GetDashboardSummary: %v", err)
	}
	if summary.LowStockCount != 2 {
		t.Fatalf("low stock count must include zero-stock items; expected 2, got %d", summary.LowStockCount)
	}
	if summary.OutOfStockCount != 1 {
		t.Fatalf("out of stock count expected 1; got %d", summary.OutOfStockCount)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("inventory-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("inventory-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=inventory_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
