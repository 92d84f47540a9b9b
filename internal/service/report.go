package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/repository"
)

// Window is a calendar granularity used to filter orders before
// aggregation.
type Window string

const (
	WindowAll     Window = ""
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowYearly  Window = "yearly"
)

// SalesPoint is one aggregated bucket: a product or category name and the
// summed quantity×price over the window.
type SalesPoint struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

type SalesReport struct {
	ProductSales  []SalesPoint `json:"productSales"`
	CategorySales []SalesPoint `json:"categorySales"`
}

type SalesSummary struct {
	TotalSales   float64 `json:"totalSales"`
	TotalPayment float64 `json:"totalPayment"`
	TotalChange  float64 `json:"totalChange"`
	OrderCount   int     `json:"orderCount"`
}

// ReportStore is the slice of the repository reporting needs.
type ReportStore interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	DeleteOrder(ctx context.Context, id string) error
}

type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Orders returns the order history, newest first, filtered to the window
// around the reference date.
func (s *ReportService) Orders(ctx context.Context, w Window, ref time.Time) ([]model.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, w, ref), nil
}

// Sales folds order lines into per-product and per-category sums of
// quantity×price. Lines whose stored category name matches no existing
// category are dropped from the category aggregation only.
func (s *ReportService) Sales(ctx context.Context, w Window, ref time.Time) (SalesReport, error) {
	var (
		orders     []model.Order
		categories []model.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.store.ListOrders(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SalesReport{}, err
	}

	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
	}

	productSales := make(map[string]float64)
	categorySales := make(map[string]float64)
	for _, order := range filterOrders(orders, w, ref) {
		for _, item := range order.CartItems {
			amount := float64(item.Quantity) * item.Price
			productSales[item.ProductName] += amount
			if item.Category != "" && known[item.Category] {
				categorySales[item.Category] += amount
			}
		}
	}

	return SalesReport{
		ProductSales:  toPoints(productSales),
		CategorySales: toPoints(categorySales),
	}, nil
}

// Summary totals grand total, payment and change over the window.
func (s *ReportService) Summary(ctx context.Context, w Window, ref time.Time) (SalesSummary, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return SalesSummary{}, err
	}

	var sum SalesSummary
	for _, o := range filterOrders(orders, w, ref) {
		sum.TotalSales += o.GrandTotal
		sum.TotalPayment += o.PaymentAmount
		sum.TotalChange += o.Change
		sum.OrderCount++
	}
	return sum, nil
}

// DeleteOrder removes an order record. Orders are otherwise immutable.
func (s *ReportService) DeleteOrder(ctx context.Context, id string) error {
	err := s.store.DeleteOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Income is the all-time sum of grand totals.
func (s *ReportService) Income(ctx context.Context) (float64, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		total += o.GrandTotal
	}
	return total, nil
}

func filterOrders(orders []model.Order, w Window, ref time.Time) []model.Order {
	if w == WindowAll {
		return orders
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if sameWindow(o.Timestamp, ref, w) {
			out = append(out, o)
		}
	}
	return out
}

func sameWindow(t, ref time.Time, w Window) bool {
	t, ref = t.Local(), ref.Local()
	switch w {
	case WindowDaily:
		ty, tm, td := t.Date()
		ry, rm, rd := ref.Date()
		return ty == ry && tm == rm && td == rd
	case WindowWeekly:
		ty, tw := t.ISOWeek()
		ry, rw := ref.ISOWeek()
		return ty == ry && tw == rw
	case WindowMonthly:
		return t.Year() == ref.Year() && t.Month() == ref.Month()
	case WindowYearly:
		return t.Year() == ref.Year()
	default:
		return true
	}
}

func toPoints(sales map[string]float64) []SalesPoint {
	points := make([]SalesPoint, 0, len(sales))
	for name, amount := range sales {
		points = append(points, SalesPoint{Name: name, Sales: amount})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points
}
