package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/stockpilot/internal/cache"
	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/inventory"
	"github.com/andresuchdata/stockpilot/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	RefreshFailedMessage = "Failed to fetch inventory data from the server."

	// One order is always shown as already sent so the replenishment board is never empty.
	sentOrderProductID = "prod_2"
	sentOrderQuantity  = 50
)

// AlertSender delivers test notifications.
type AlertSender interface {
	SendTest(ctx context.Context, productName string, setting domain.AlertSetting) (string, error)
}

type Options struct {
	DefaultTier         domain.SubscriptionTier
	StarterProductLimit int
	DefaultUser         string
}

// SyncState reports the outcome of the last refresh.
type SyncState struct {
	Tier          domain.SubscriptionTier `json:"tier"`
	Loading       bool                    `json:"loading"`
	Error         string                  `json:"error,omitempty"`
	LastRefreshed *time.Time              `json:"last_refreshed,omitempty"`
}

// InventoryService owns the working copy of every processed product.
// Sales and stock adjustments live only in that copy and are replaced on
// the next refresh; alert settings and supplier mappings are persisted.
type InventoryService struct {
	composer   *Composer
	repo       repository.CatalogRepository
	cache      cache.ProductCache
	forecaster Forecaster
	alerts     AlertSender
	opts       Options
	now        func() time.Time

	// serializes refreshes so a slow compose cannot overwrite a newer one
	refreshMu sync.Mutex

	mu          sync.RWMutex
	tier        domain.SubscriptionTier
	products    []domain.ProcessedProduct
	orders      []domain.PurchaseOrder
	loading     bool
	lastErr     string
	refreshedAt time.Time
}

func NewInventoryService(composer *Composer, repo repository.CatalogRepository, cacheImpl cache.ProductCache, forecaster Forecaster, alerts AlertSender, opts Options) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopProductCache()
	}
	if opts.DefaultTier == "" {
		opts.DefaultTier = domain.TierStarter
	}
	if opts.DefaultUser == "" {
		opts.DefaultUser = "Jane Doe"
	}
	return &InventoryService{
		composer:   composer,
		repo:       repo,
		cache:      cacheImpl,
		forecaster: forecaster,
		alerts:     alerts,
		opts:       opts,
		now:        time.Now,
		tier:       opts.DefaultTier,
		products:   make([]domain.ProcessedProduct, 0),
		orders:     make([]domain.PurchaseOrder, 0),
	}
}

// Refresh recomposes every product for the current tier. On failure the
// previous products are kept and the state carries the error message.
func (s *InventoryService) Refresh(ctx context.Context) error {
	return s.load(ctx, false)
}

// SetTier switches the subscription tier and reloads products for it.
func (s *InventoryService) SetTier(ctx context.Context, tier domain.SubscriptionTier) error {
	if _, ok := domain.ParseTier(string(tier)); !ok {
		return fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidInput, tier)
	}

	s.mu.Lock()
	previous := s.tier
	s.tier = tier
	s.mu.Unlock()

	if previous != tier {
		log.Info().Str("from", string(previous)).Str("to", string(tier)).Msg("subscription tier changed")
	}
	return s.load(ctx, true)
}

func (s *InventoryService) load(ctx context.Context, useCache bool) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	tier := s.tier
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	var products []domain.ProcessedProduct
	if useCache {
		if snapshot, ok, err := s.cache.Get(ctx, tier); err == nil && ok {
			products = snapshot.Products
		} else if err != nil {
			log.Warn().Err(err).Msg("inventory: cache get products failed")
		}
	}

	if products == nil {
		composed, err := s.composer.Compose(ctx, tier)
		if err != nil {
			s.mu.Lock()
			s.loading = false
			s.lastErr = RefreshFailedMessage
			s.mu.Unlock()
			log.Error().Err(err).Str("tier", string(tier)).Msg("inventory refresh failed")
			return fmt.Errorf("refresh inventory: %w", err)
		}
		products = composed

		if err := s.cache.Set(ctx, &domain.InventorySnapshot{Tier: tier, Products: products}); err != nil {
			log.Warn().Err(err).Msg("inventory: cache set products failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.tier != tier {
		// the tier moved on while composing; its own load will fill the state
		return nil
	}
	s.products = products
	s.orders = buildOrders(products)
	s.refreshedAt = s.now()
	return nil
}

func buildOrders(products []domain.ProcessedProduct) []domain.PurchaseOrder {
	orders := inventory.BuildDraftOrders(products)
	for _, p := range products {
		if p.ID == sentOrderProductID {
			orders = append(orders, inventory.NewPurchaseOrder(inventory.SentOrderID(p.ID), p, sentOrderQuantity, domain.POSent))
		}
	}
	return orders
}

func (s *InventoryService) Tier() domain.SubscriptionTier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier
}

func (s *InventoryService) State() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SyncState{Tier: s.tier, Loading: s.loading, Error: s.lastErr}
	if !s.refreshedAt.IsZero() {
		at := s.refreshedAt
		state.LastRefreshed = &at
	}
	return state
}

// Products returns copies of the products matching the filter.
func (s *InventoryService) Products(filter domain.ProductFilter) []domain.ProcessedProduct {
	return inventory.FilterProducts(s.snapshot(), filter)
}

func (s *InventoryService) Product(id string) (domain.ProcessedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.ProcessedProduct{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return s.products[i].Clone(), nil
}

// VisibleProducts applies the Starter plan's product limit.
func (s *InventoryService) VisibleProducts() domain.VisibleProducts {
	products := s.snapshot()
	tier := s.Tier()

	if tier.IsPro() || s.opts.StarterProductLimit <= 0 || len(products) <= s.opts.StarterProductLimit {
		return domain.VisibleProducts{Products: products}
	}
	return domain.VisibleProducts{
		Products:    products[:s.opts.StarterProductLimit],
		HiddenCount: len(products) - s.opts.StarterProductLimit,
		Limit:       s.opts.StarterProductLimit,
	}
}

func (s *InventoryService) AtRisk() []domain.ProcessedProduct {
	return inventory.AtRisk(s.snapshot())
}

// SalesSeries returns a product's daily sales in the range, tagged with
// promotions for Pro accounts.
func (s *InventoryService) SalesSeries(id, start, end string) ([]domain.SalesPoint, error) {
	p, err := s.Product(id)
	if err != nil {
		return nil, err
	}
	return inventory.SalesSeries(p, start, end, s.Tier().IsPro())
}

// SimulateSale records a sale of quantity units made today.
func (s *InventoryService) SimulateSale(id string, quantity int) (domain.ProcessedProduct, error) {
	if quantity <= 0 {
		return domain.ProcessedProduct{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	now := s.now()
	return s.mutate(id, func(p *domain.ProcessedProduct) error {
		p.TotalStock -= quantity
		p.SalesHistory = append(p.SalesHistory, domain.SalesHistoryEntry{
			VariantID: p.ID,
			Date:      now.Format("2006-01-02"),
			UnitsSold: quantity,
		})
		p.StockHistory = append(p.StockHistory, inventory.NewSaleEntry(quantity, p.TotalStock, now))
		*p = inventory.Recalculate(*p)
		return nil
	})
}

// AdjustStock applies a manual correction of delta units.
func (s *InventoryService) AdjustStock(id string, delta int, reason, user string) (domain.ProcessedProduct, error) {
	if delta == 0 {
		return domain.ProcessedProduct{}, fmt.Errorf("%w: adjustment cannot be zero", domain.ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ProcessedProduct{}, fmt.Errorf("%w: a reason is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(user) == "" {
		user = s.opts.DefaultUser
	}

	now := s.now()
	return s.mutate(id, func(p *domain.ProcessedProduct) error {
		applyAdjustment(p, delta, user, reason, now)
		return nil
	})
}

func applyAdjustment(p *domain.ProcessedProduct, delta int, user, reason string, now time.Time) {
	p.TotalStock += delta
	p.StockHistory = append(p.StockHistory, inventory.NewAdjustmentEntry(delta, p.TotalStock, user, reason, now))
	*p = inventory.Recalculate(*p)
}

func (s *InventoryService) AddAlertRecipient(ctx context.Context, id string, channel domain.AlertChannel, value string) (domain.ProcessedProduct, error) {
	value = strings.TrimSpace(value)
	channel, err := s.validateRecipient(channel, value)
	if err != nil {
		return domain.ProcessedProduct{}, err
	}

	return s.mutate(id, func(p *domain.ProcessedProduct) error {
		list, err := recipientList(&p.AlertSetting, channel)
		if err != nil {
			return err
		}
		for _, existing := range *list {
			if existing == value {
				return nil
			}
		}
		*list = append(*list, value)
		return s.saveSetting(ctx, p.AlertSetting)
	})
}

// RemoveAlertRecipient drops every occurrence of value. Removal is allowed on
// any tier so a downgraded account can still clean up Pro channels.
func (s *InventoryService) RemoveAlertRecipient(ctx context.Context, id string, channel domain.AlertChannel, value string) (domain.ProcessedProduct, error) {
	parsed, ok := domain.ParseAlertChannel(string(channel))
	if !ok {
		return domain.ProcessedProduct{}, fmt.Errorf("%w: unknown channel %q", domain.ErrInvalidInput, channel)
	}
	value = strings.TrimSpace(value)

	return s.mutate(id, func(p *domain.ProcessedProduct) error {
		list, err := recipientList(&p.AlertSetting, parsed)
		if err != nil {
			return err
		}
		kept := make([]string, 0, len(*list))
		for _, existing := range *list {
			if existing != value {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(*list) {
			return nil
		}
		*list = kept
		return s.saveSetting(ctx, p.AlertSetting)
	})
}

// validateRecipient returns the normalized channel for a recipient the
// current tier may add.
func (s *InventoryService) validateRecipient(channel domain.AlertChannel, value string) (domain.AlertChannel, error) {
	parsed, ok := domain.ParseAlertChannel(string(channel))
	if !ok {
		return "", fmt.Errorf("%w: unknown channel %q", domain.ErrInvalidInput, channel)
	}
	if parsed.RequiresPro() && !s.Tier().IsPro() {
		return "", fmt.Errorf("%s alerts: %w", parsed, domain.ErrProFeatureRequired)
	}
	if value == "" {
		return "", fmt.Errorf("%w: recipient cannot be empty", domain.ErrInvalidInput)
	}
	if parsed == domain.ChannelEmail && !strings.Contains(value, "@") {
		return "", fmt.Errorf("%w: %q is not an email address", domain.ErrInvalidInput, value)
	}
	return parsed, nil
}

func recipientList(setting *domain.AlertSetting, channel domain.AlertChannel) (*[]string, error) {
	switch channel {
	case domain.ChannelEmail:
		return &setting.AlertEmailList, nil
	case domain.ChannelSMS:
		return &setting.AlertSMSList, nil
	case domain.ChannelSlack:
		return &setting.AlertSlackList, nil
	}
	return nil, fmt.Errorf("%w: unknown channel %q", domain.ErrInvalidInput, channel)
}

// SendTestAlert notifies every configured recipient of the product.
func (s *InventoryService) SendTestAlert(ctx context.Context, id string) (string, error) {
	p, err := s.Product(id)
	if err != nil {
		return "", err
	}
	return s.alerts.SendTest(ctx, p.Name, p.AlertSetting)
}

// UpdateAlertSetting applies threshold changes. Changing the reorder point or
// the low stock threshold re-derives the product status.
func (s *InventoryService) UpdateAlertSetting(ctx context.Context, id string, update domain.AlertSettingUpdate) (domain.ProcessedProduct, error) {
	for name, v := range map[string]*int{
		"reorder_point_units":      update.ReorderPointUnits,
		"reorder_quantity":         update.ReorderQuantity,
		"supplier_lead_time_days":  update.SupplierLeadTimeDays,
		"low_stock_threshold_days": update.LowStockThresholdDays,
	} {
		if v != nil && *v < 0 {
			return domain.ProcessedProduct{}, fmt.Errorf("%w: %s cannot be negative", domain.ErrInvalidInput, name)
		}
	}

	return s.mutate(id, func(p *domain.ProcessedProduct) error {
		rederive := false
		if update.ReorderPointUnits != nil {
			p.AlertSetting.ReorderPointUnits = *update.ReorderPointUnits
			rederive = true
		}
		if update.LowStockThresholdDays != nil {
			p.AlertSetting.LowStockThresholdDays = *update.LowStockThresholdDays
			rederive = true
		}
		if update.ReorderQuantity != nil {
			p.AlertSetting.ReorderQuantity = *update.ReorderQuantity
		}
		if update.SupplierLeadTimeDays != nil {
			p.AlertSetting.SupplierLeadTimeDays = *update.SupplierLeadTimeDays
		}
		if err := s.saveSetting(ctx, p.AlertSetting); err != nil {
			return err
		}
		if rederive {
			*p = inventory.Recalculate(*p)
		}
		return nil
	})
}

func (s *InventoryService) saveSetting(ctx context.Context, setting domain.AlertSetting) error {
	if err := s.repo.SaveAlertSetting(ctx, setting); err != nil {
		return fmt.Errorf("save alert setting: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// AddSupplierMapping links the product to a supplier feed and reloads products.
func (s *InventoryService) AddSupplierMapping(ctx context.Context, id string, mapping domain.ExternalInventoryMapping) (domain.ProcessedProduct, error) {
	if !s.Tier().IsPro() {
		return domain.ProcessedProduct{}, fmt.Errorf("supplier integration: %w", domain.ErrProFeatureRequired)
	}
	if err := validateMapping(mapping); err != nil {
		return domain.ProcessedProduct{}, err
	}
	if _, err := s.Product(id); err != nil {
		return domain.ProcessedProduct{}, err
	}

	mapping.VariantID = id
	mapping.SupplierName = strings.TrimSpace(mapping.SupplierName)
	mapping.SupplierSKU = strings.TrimSpace(mapping.SupplierSKU)
	mapping.SupplierAPIURL = strings.TrimSpace(mapping.SupplierAPIURL)
	if err := s.repo.SaveExternalMapping(ctx, mapping); err != nil {
		return domain.ProcessedProduct{}, fmt.Errorf("save supplier mapping: %w", err)
	}
	s.invalidate(ctx)

	if err := s.Refresh(ctx); err != nil {
		return domain.ProcessedProduct{}, err
	}
	return s.Product(id)
}

func (s *InventoryService) RemoveSupplierMapping(ctx context.Context, id string) (domain.ProcessedProduct, error) {
	if !s.Tier().IsPro() {
		return domain.ProcessedProduct{}, fmt.Errorf("supplier integration: %w", domain.ErrProFeatureRequired)
	}
	if _, err := s.Product(id); err != nil {
		return domain.ProcessedProduct{}, err
	}

	if err := s.repo.DeleteExternalMapping(ctx, id); err != nil {
		return domain.ProcessedProduct{}, fmt.Errorf("delete supplier mapping: %w", err)
	}
	s.invalidate(ctx)

	if err := s.Refresh(ctx); err != nil {
		return domain.ProcessedProduct{}, err
	}
	return s.Product(id)
}

func validateMapping(m domain.ExternalInventoryMapping) error {
	if strings.TrimSpace(m.SupplierName) == "" || strings.TrimSpace(m.SupplierAPIURL) == "" || strings.TrimSpace(m.SupplierSKU) == "" {
		return fmt.Errorf("%w: supplier name, API URL and SKU are required", domain.ErrInvalidInput)
	}
	if u, err := url.ParseRequestURI(strings.TrimSpace(m.SupplierAPIURL)); err != nil || u.Host == "" {
		return fmt.Errorf("%w: supplier API URL %q is not a valid URL", domain.ErrInvalidInput, m.SupplierAPIURL)
	}
	if m.CostPerItem != nil && m.CostPerItem.IsNegative() {
		return fmt.Errorf("%w: cost per item cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// ReorderSuggestion asks the model how much to reorder. Pro only.
func (s *InventoryService) ReorderSuggestion(ctx context.Context, id string) (domain.ReorderSuggestion, error) {
	if !s.Tier().IsPro() {
		return domain.ReorderSuggestion{}, fmt.Errorf("reorder suggestions: %w", domain.ErrProFeatureRequired)
	}
	p, err := s.Product(id)
	if err != nil {
		return domain.ReorderSuggestion{}, err
	}

	return domain.ReorderSuggestion{
		ProductID:        p.ID,
		Suggestion:       s.forecaster.ReorderSuggestion(ctx, p),
		BaselineQuantity: inventory.BaselineReorderQuantity(p, inventory.TargetCoverDays),
		CoverDays:        inventory.TargetCoverDays,
	}, nil
}

// PurchaseOrders lists orders, optionally only those in one status.
func (s *InventoryService) PurchaseOrders(status domain.POStatus) []domain.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PurchaseOrder, 0, len(s.orders))
	for _, po := range s.orders {
		if status == "" || po.Status == status {
			out = append(out, po)
		}
	}
	return out
}

// SendPurchaseOrder moves a Draft order to Sent.
func (s *InventoryService) SendPurchaseOrder(id string) (domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return domain.PurchaseOrder{}, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	if s.orders[i].Status != domain.PODraft {
		return domain.PurchaseOrder{}, fmt.Errorf("%w: cannot send a %s order", domain.ErrInvalidTransition, s.orders[i].Status)
	}

	s.orders[i].Status = domain.POSent
	log.Info().Str("po_id", id).Str("supplier", s.orders[i].SupplierName).Msg("purchase order sent")
	return s.orders[i], nil
}

// ReceivePurchaseOrder moves a Sent order to Received and books its units into stock.
func (s *InventoryService) ReceivePurchaseOrder(id string) (domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return domain.PurchaseOrder{}, fmt.Errorf("purchase order %s: %w", id, domain.ErrNotFound)
	}
	po := s.orders[i]
	if po.Status != domain.POSent {
		return domain.PurchaseOrder{}, fmt.Errorf("%w: cannot receive a %s order", domain.ErrInvalidTransition, po.Status)
	}

	if pi := s.indexOf(po.ProductID); pi >= 0 {
		p := s.products[pi].Clone()
		before := p.Status
		applyAdjustment(&p, po.Quantity, inventory.SystemUser, fmt.Sprintf("Purchase order %s received", po.ID), s.now())
		s.products[pi] = p
		s.statusChanged(before, p)
	}

	s.orders[i].Status = domain.POReceived
	log.Info().Str("po_id", id).Int("quantity", po.Quantity).Msg("purchase order received")
	return s.orders[i], nil
}

func (s *InventoryService) mutate(id string, fn func(p *domain.ProcessedProduct) error) (domain.ProcessedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.ProcessedProduct{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	p := s.products[i].Clone()
	before := p.Status
	if err := fn(&p); err != nil {
		return domain.ProcessedProduct{}, err
	}
	s.products[i] = p
	s.statusChanged(before, p)
	return p.Clone(), nil
}

// statusChanged logs moves into an at-risk status and drafts an order for a
// product that just went Critical without one open. Callers hold s.mu.
func (s *InventoryService) statusChanged(before domain.InventoryStatus, p domain.ProcessedProduct) {
	if before == p.Status {
		return
	}
	if p.Status.AtRisk() {
		log.Warn().
			Str("variant_id", p.ID).
			Str("sku", p.SKU).
			Str("from", string(before)).
			Str("to", string(p.Status)).
			Int("total_stock", p.TotalStock).
			Msg("inventory status changed")
	}
	if p.Status != domain.StatusCritical {
		return
	}
	for _, po := range s.orders {
		if po.ProductID == p.ID && po.Status != domain.POReceived {
			return
		}
	}
	id := inventory.DraftOrderID(p.ID)
	if s.orderIndex(id) >= 0 {
		id = fmt.Sprintf("%s_%d", id, len(s.orders)+1)
	}
	s.orders = append(s.orders, inventory.NewPurchaseOrder(id, p, p.AlertSetting.ReorderQuantity, domain.PODraft))
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory: cache invalidate failed")
	}
}

func (s *InventoryService) snapshot() []domain.ProcessedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProcessedProduct, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *InventoryService) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *InventoryService) orderIndex(id string) int {
	for i, po := range s.orders {
		if po.ID == id {
			return i
		}
	}
	return -1
}
