package world

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/nvandessel/corpsim/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// weekdays starting Thu 2020-01-02, skipping the first weekend.
var weekdays = []time.Time{
	date(2020, time.January, 2),
	date(2020, time.January, 3),
	date(2020, time.January, 6),
	date(2020, time.January, 7),
	date(2020, time.January, 8),
	date(2020, time.January, 9),
}

func feature(name string, cost, maint float64) *models.Feature {
	return &models.Feature{
		Name:                        name,
		DevelopmentCostDays:         cost,
		MaintenanceCostDaysPerMonth: maint,
		PopularityMetric:            100,
		Maintained:                  true,
	}
}

func company(employees int, svc *models.Service) *models.Company {
	return models.NewCompany("Acme", 5_000_000, models.Employees(employees, 100000), svc)
}

func TestUpdateFeatureDevelopment_ProgressAndPromotion(t *testing.T) {
	svc := &models.Service{Name: "Widgetly"}
	f := models.NewFeature("Search", models.ConventionalFeatureTemplate())
	svc.PlanFeature(f)
	c := company(10, svc)

	dev := UpdateFeatureDevelopment(c, weekdays[0])
	if f.DevelopmentProgress != 5 {
		t.Fatalf("progress after one weekday = %v, want 5", f.DevelopmentProgress)
	}
	if dev.Capacity != 5 || dev.RemainingCapacity != 5 {
		t.Errorf("capacity = %v/%v, want 5/5", dev.Capacity, dev.RemainingCapacity)
	}

	for _, d := range weekdays[1:5] {
		UpdateFeatureDevelopment(c, d)
	}
	if f.DevelopmentProgress != 25 {
		t.Fatalf("progress after five weekdays = %v, want 25", f.DevelopmentProgress)
	}
	if len(svc.PlannedFeatures) != 1 {
		t.Fatalf("feature promoted early")
	}

	dev = UpdateFeatureDevelopment(c, weekdays[5])
	if f.DevelopmentProgress != 30 {
		t.Errorf("progress after six weekdays = %v, want 30", f.DevelopmentProgress)
	}
	if len(svc.PlannedFeatures) != 0 {
		t.Errorf("planned = %v, want empty", svc.PlannedFeatureNames())
	}
	if len(svc.Features) != 1 || svc.Features[0] != f {
		t.Errorf("features = %v, want [Search]", svc.FeatureNames())
	}
	if !reflect.DeepEqual(dev.Completed, []string{"Search"}) {
		t.Errorf("Completed = %v, want [Search]", dev.Completed)
	}
}

func TestUpdateFeatureDevelopment_WeekendIsNoop(t *testing.T) {
	active := feature("Old", 1, 300)
	active.Maintained = false
	planned := feature("New", 30, 0)
	svc := &models.Service{Name: "Widgetly", Features: []*models.Feature{active}}
	svc.PlanFeature(planned)
	c := company(10, svc)

	for _, d := range []time.Time{date(2020, time.January, 4), date(2020, time.January, 5)} {
		dev := UpdateFeatureDevelopment(c, d)
		if !dev.Skipped {
			t.Errorf("%s: Skipped = false", d.Weekday())
		}
	}
	if planned.DevelopmentProgress != 0 {
		t.Errorf("progress = %v, want 0", planned.DevelopmentProgress)
	}
	if active.Maintained {
		t.Error("weekend changed maintained flag")
	}
}

func TestUpdateFeatureDevelopment_SequentialMaintenance(t *testing.T) {
	// One employee gives 0.5 engineer-days; each feature costs 0.2 per day.
	fs := []*models.Feature{
		feature("a", 1, 6),
		feature("b", 1, 6),
		feature("c", 1, 6),
		feature("d", 1, 0),
	}
	svc := &models.Service{Name: "Widgetly", Features: fs}
	planned := feature("next", 10, 0)
	svc.PlanFeature(planned)
	c := company(1, svc)

	dev := UpdateFeatureDevelopment(c, weekdays[0])

	want := []bool{true, true, false, false}
	for i, f := range fs {
		if f.Maintained != want[i] {
			t.Errorf("%s.Maintained = %v, want %v", f.Name, f.Maintained, want[i])
		}
	}
	if dev.Unmaintained != 2 {
		t.Errorf("Unmaintained = %d, want 2", dev.Unmaintained)
	}
	if dev.RemainingCapacity >= 0 {
		t.Errorf("RemainingCapacity = %v, want negative", dev.RemainingCapacity)
	}
	if planned.DevelopmentProgress != 0 {
		t.Errorf("planned progress = %v, want 0 when maintenance is over budget", planned.DevelopmentProgress)
	}
}

func TestUpdateFeatureDevelopment_MultipleCompletions(t *testing.T) {
	a, b, c := feature("a", 1, 0), feature("b", 1, 0), feature("c", 10, 0)
	svc := &models.Service{Name: "Widgetly"}
	svc.PlanFeature(a)
	svc.PlanFeature(b)
	svc.PlanFeature(c)
	co := company(10, svc)

	dev := UpdateFeatureDevelopment(co, weekdays[0])

	if !reflect.DeepEqual(dev.Completed, []string{"a", "b"}) {
		t.Errorf("Completed = %v, want [a b]", dev.Completed)
	}
	if !reflect.DeepEqual(svc.FeatureNames(), []string{"a", "b"}) {
		t.Errorf("features = %v, want [a b]", svc.FeatureNames())
	}
	if !reflect.DeepEqual(svc.PlannedFeatureNames(), []string{"c"}) {
		t.Errorf("planned = %v, want [c]", svc.PlannedFeatureNames())
	}
	if c.DevelopmentProgress != 3 {
		t.Errorf("c progress = %v, want 3", c.DevelopmentProgress)
	}
}

func TestUpdateFeatureDevelopment_CapacitySpansServices(t *testing.T) {
	first := &models.Service{Name: "one"}
	first.PlanFeature(feature("x", 2, 0))
	second := &models.Service{Name: "two"}
	y := feature("y", 10, 0)
	second.PlanFeature(y)
	c := models.NewCompany("Acme", 0, models.Employees(10, 1), first, second)

	UpdateFeatureDevelopment(c, weekdays[0])

	if len(first.Features) != 1 {
		t.Errorf("first service features = %v, want [x]", first.FeatureNames())
	}
	if y.DevelopmentProgress != 3 {
		t.Errorf("y progress = %v, want 3", y.DevelopmentProgress)
	}
}

func TestUpdateFeatureDevelopment_NoEmployees(t *testing.T) {
	costly := feature("costly", 1, 3)
	free := feature("free", 1, 0)
	planned := feature("planned", 5, 0)
	svc := &models.Service{Name: "Widgetly", Features: []*models.Feature{free, costly}}
	svc.PlanFeature(planned)
	c := company(0, svc)

	dev := UpdateFeatureDevelopment(c, weekdays[0])

	if dev.Capacity != 0 {
		t.Errorf("Capacity = %v, want 0", dev.Capacity)
	}
	if !free.Maintained {
		t.Error("zero-cost feature should stay maintained")
	}
	if costly.Maintained {
		t.Error("feature with upkeep should be unmaintained without staff")
	}
	if planned.DevelopmentProgress != 0 {
		t.Errorf("progress = %v, want 0", planned.DevelopmentProgress)
	}
}

func TestUpdateServiceUsage(t *testing.T) {
	tests := []struct {
		name      string
		users     float64
		attrition float64
		features  []*models.Feature
		want      float64
	}{
		{"growth from zero", 0, 0.01, []*models.Feature{feature("f", 1, 0)}, 100},
		{"attrition before growth", 1000, 0.01, []*models.Feature{feature("f", 1, 0)}, 1090},
		{"attrition only", 200, 0.5, nil, 100},
		{"unmaintained adds nothing", 0, 0, []*models.Feature{{Name: "f", PopularityMetric: 100}}, 0},
		{"two features", 0, 0, []*models.Feature{feature("f", 1, 0), feature("g", 1, 0)}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &models.Service{Name: "s", Users: tt.users, DailyAttritionRate: tt.attrition, Features: tt.features}
			c := company(1, svc)

			UpdateServiceUsage(c)

			if !almostEqual(svc.Users, tt.want) {
				t.Errorf("Users = %v, want %v", svc.Users, tt.want)
			}
		})
	}
}

func TestUpdateFinancialAssets_OnlyAtMonthEnd(t *testing.T) {
	svc := &models.Service{Name: "s", Users: 100, HostingCost: 1000, SubscriptionFee: models.SubscriptionFee(15)}
	c := company(10, svc)

	if _, ok := UpdateFinancialAssets(c, date(2020, time.January, 30)); ok {
		t.Fatal("settled on Jan 30")
	}
	if c.FinancialAssets != 5_000_000 {
		t.Fatalf("assets changed before month end: %v", c.FinancialAssets)
	}

	s, ok := UpdateFinancialAssets(c, date(2020, time.January, 31))
	if !ok {
		t.Fatal("did not settle on Jan 31")
	}
	if s.Revenue != 1500 {
		t.Errorf("Revenue = %v, want 1500", s.Revenue)
	}
	if !almostEqual(s.Salaries, 1_000_000.0/12) {
		t.Errorf("Salaries = %v, want %v", s.Salaries, 1_000_000.0/12)
	}
	if s.HostingCosts != 1000 {
		t.Errorf("HostingCosts = %v, want 1000", s.HostingCosts)
	}
	want := 5_000_000 + 1500 - 1_000_000.0/12 - 1000
	if !almostEqual(c.FinancialAssets, want) {
		t.Errorf("FinancialAssets = %v, want %v", c.FinancialAssets, want)
	}
	if !almostEqual(s.Net, want-5_000_000) {
		t.Errorf("Net = %v, want %v", s.Net, want-5_000_000)
	}
}

func TestUpdateFinancialAssets_FeatureCostsAndFees(t *testing.T) {
	f := models.NewFeature("Search", models.ConventionalFeatureTemplate())
	svc := &models.Service{
		Name:            "s",
		BillingModel:    models.BillingFreemium,
		Users:           100,
		SubscriptionFee: models.SubscriptionFee(10),
		Features:        []*models.Feature{f},
	}
	c := models.NewCompany("Acme", 0, nil, svc)

	s, ok := UpdateFinancialAssets(c, date(2020, time.February, 29))
	if !ok {
		t.Fatal("did not settle on Feb 29 2020")
	}
	if s.Revenue != 1000 {
		t.Errorf("Revenue = %v, want 1000 (any fee counts at settlement)", s.Revenue)
	}
	if !almostEqual(s.HostingCosts, 4) {
		t.Errorf("HostingCosts = %v, want 4", s.HostingCosts)
	}
}

func TestCalendar(t *testing.T) {
	tests := []struct {
		day      time.Time
		weekend  bool
		monthEnd bool
	}{
		{date(2020, time.January, 2), false, false},
		{date(2020, time.January, 4), true, false},
		{date(2020, time.January, 5), true, false},
		{date(2020, time.January, 31), false, true},
		{date(2020, time.February, 28), false, false},
		{date(2020, time.February, 29), true, true},
		{date(2021, time.February, 28), true, true},
		{date(2020, time.December, 31), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.day.Format("2006-01-02"), func(t *testing.T) {
			if got := IsWeekend(tt.day); got != tt.weekend {
				t.Errorf("IsWeekend = %v, want %v", got, tt.weekend)
			}
			if got := IsLastDayOfMonth(tt.day); got != tt.monthEnd {
				t.Errorf("IsLastDayOfMonth = %v, want %v", got, tt.monthEnd)
			}
		})
	}
}
