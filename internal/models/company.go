package models

import "github.com/google/uuid"

// Employee is a member of a company's headcount.
type Employee struct {
	// Salary is the annual salary in dollars.
	Salary float64 `json:"salary" yaml:"salary"`
}

// Employees returns n employees with the same salary.
func Employees(n int, salary float64) []Employee {
	if n <= 0 {
		return []Employee{}
	}
	es := make([]Employee, n)
	for i := range es {
		es[i] = Employee{Salary: salary}
	}
	return es
}

// Company is a simulated business. It exclusively owns its services,
// employees and, through the services, their features.
type Company struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// FinancialAssets is cash on hand in dollars. It may go negative.
	FinancialAssets float64 `json:"financial_assets" yaml:"financial_assets"`

	Employees []Employee `json:"employees" yaml:"employees"`
	Services  []*Service `json:"services" yaml:"services"`
}

// NewCompany creates a company with a fresh ID.
func NewCompany(name string, assets float64, employees []Employee, services ...*Service) *Company {
	if employees == nil {
		employees = []Employee{}
	}
	if services == nil {
		services = []*Service{}
	}
	return &Company{
		ID:              uuid.NewString(),
		Name:            name,
		FinancialAssets: assets,
		Employees:       employees,
		Services:        services,
	}
}

// CompanyTemplate holds the starting position of a newly onboarded company.
type CompanyTemplate struct {
	FinancialAssets float64 `json:"financial_assets" yaml:"financial_assets"`
	Employees       int     `json:"employees" yaml:"employees"`
	Salary          float64 `json:"salary" yaml:"salary"`
}

// DefaultCompanyTemplate returns the funding and headcount every onboarded
// company starts with.
func DefaultCompanyTemplate() CompanyTemplate {
	return CompanyTemplate{
		FinancialAssets: 5_000_000,
		Employees:       10,
		Salary:          100000,
	}
}

// NewCompanyFromTemplate creates a company with the template's assets and
// headcount.
func NewCompanyFromTemplate(name string, tmpl CompanyTemplate, services ...*Service) *Company {
	return NewCompany(name, tmpl.FinancialAssets, Employees(tmpl.Employees, tmpl.Salary), services...)
}

// PrimaryService returns the first service, or nil if there is none.
func (c *Company) PrimaryService() *Service {
	if len(c.Services) == 0 {
		return nil
	}
	return c.Services[0]
}

// AnnualPayroll returns the sum of all salaries.
func (c *Company) AnnualPayroll() float64 {
	var total float64
	for _, e := range c.Employees {
		total += e.Salary
	}
	return total
}

// TotalUsers returns the users summed across services.
func (c *Company) TotalUsers() float64 {
	var total float64
	for _, s := range c.Services {
		total += s.Users
	}
	return total
}

// Clone returns a deep copy of the company. Snapshots handed to
// presentation layers are clones so they never alias engine state.
func (c *Company) Clone() *Company {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Employees = append([]Employee(nil), c.Employees...)
	cp.Services = make([]*Service, len(c.Services))
	for i, s := range c.Services {
		sc := *s
		if s.SubscriptionFee != nil {
			sc.SubscriptionFee = SubscriptionFee(*s.SubscriptionFee)
		}
		sc.Features = cloneFeatures(s.Features)
		sc.PlannedFeatures = cloneFeatures(s.PlannedFeatures)
		cp.Services[i] = &sc
	}
	return &cp
}

func cloneFeatures(fs []*Feature) []*Feature {
	out := make([]*Feature, len(fs))
	for i, f := range fs {
		fc := *f
		out[i] = &fc
	}
	return out
}
