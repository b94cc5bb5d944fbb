package ledger

import (
	"context"

	"github.com/phamduc/soquy/internal/common"
	"github.com/phamduc/soquy/internal/model"
	"github.com/phamduc/soquy/internal/storage"
)

// defaultCategories are seeded into an empty ledger on first run. They
// match the original desktop data set, hence the Vietnamese names.
var defaultCategories = []model.Category{
	{Name: "Ăn uống", Type: model.TypeExpense, Icon: "🍜", Color: "#FF6B6B", Description: "Ăn uống hằng ngày"},
	{Name: "Di chuyển", Type: model.TypeExpense, Icon: "🛵", Color: "#4ECDC4", Description: "Xăng xe, gửi xe, taxi"},
	{Name: "Mua sắm", Type: model.TypeExpense, Icon: "🛍️", Color: "#FFE66D", Description: "Quần áo, đồ dùng"},
	{Name: "Hóa đơn", Type: model.TypeExpense, Icon: "🧾", Color: "#95E1D3", Description: "Điện, nước, internet"},
	{Name: "Giải trí", Type: model.TypeExpense, Icon: "🎬", Color: "#C7A2FF", Description: "Phim ảnh, du lịch"},
	{Name: "Y tế", Type: model.TypeExpense, Icon: "💊", Color: "#FF8FAB", Description: "Khám bệnh, thuốc men"},
	{Name: "Giáo dục", Type: model.TypeExpense, Icon: "📚", Color: "#6C91C2", Description: "Học phí, sách vở"},
	{Name: "Khác", Type: model.TypeExpense, Icon: "📦", Color: "#999999", Description: "Chi tiêu khác"},
	{Name: "Lương", Type: model.TypeIncome, Icon: "💰", Color: "#51CF66", Description: "Lương hằng tháng"},
	{Name: "Thưởng", Type: model.TypeIncome, Icon: "🎁", Color: "#94D82D", Description: "Thưởng, phụ cấp"},
	{Name: "Đầu tư", Type: model.TypeIncome, Icon: "📈", Color: "#20C997", Description: "Lãi đầu tư"},
	{Name: "Thu nhập khác", Type: model.TypeIncome, Icon: "🪙", Color: "#868E96", Description: "Thu nhập khác"},
}

// EnsureDefaults seeds the system categories on first run. It does
// nothing when the collection already holds any category, so repeated
// startups and user edits to the defaults are both safe.
func (c *Categories) EnsureDefaults(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cats := c.collection()
	if len(cats) > 0 {
		return nil
	}

	now := model.Now()
	seeded := make([]model.Category, 0, len(defaultCategories))
	for _, cat := range defaultCategories {
		cat.ID = storage.NextID(categoryIDPrefix, categoryIDs(seeded))
		cat.UserID = model.SystemUserID
		cat.IsActive = true
		cat.CreatedAt = now
		cat.UpdatedAt = now
		seeded = append(seeded, cat)
	}

	if err := c.store.Save(storage.CollectionCategories, seeded); err != nil {
		return err
	}

	common.LogInfo("seeded default system categories", common.Fields{"count": len(seeded)})
	return nil
}
