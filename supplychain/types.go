package supplychain

import (
	"errors"

	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/table"
)

// Sheet names read by Load.
const (
	SheetStock          = "Supplier stock"
	SheetMaterialCost   = "Raw material costs"
	SheetShipping       = "Raw material shipping"
	SheetRequirement    = "Product requirements"
	SheetCapacity       = "Production capacity"
	SheetProductionCost = "Production cost"
	SheetDemand         = "Customer demand"
	SheetDeliveryCost   = "Shipping costs"
)

// ErrNilData is returned when Build or Run receives no data.
var ErrNilData = errors.New("supplychain: nil data")

// Data holds the eight input tables and the derived entity sets.
// It is immutable once returned by NewData.
type Data struct {
	Stock          *table.Table // (supplier, material)
	MaterialCost   *table.Table // (supplier, material)
	Shipping       *table.Table // (supplier, factory)
	Requirement    *table.Table // (product, material)
	Capacity       *table.Table // (product, factory)
	ProductionCost *table.Table // (product, factory)
	Demand         *table.Table // (product, customer)
	DeliveryCost   *table.Table // (factory, customer)

	Suppliers []string
	Materials []string
	Factories []string
	Products  []string
	Customers []string
}

// Vars are the three decision-variable families.
type Vars struct {
	Order   *lp.Vars[table.Triple] // (supplier, material, factory)
	Produce *lp.Vars[table.Pair]   // (product, factory)
	Deliver *lp.Vars[table.Triple] // (customer, product, factory)
}

// Options configures Build and Run.
type Options struct {
	// Name is the model name handed to the engine.
	Name string

	// Relaxed solves the continuous relaxation while keeping integer kinds declared.
	Relaxed bool
}

// DefaultOptions returns Name "supplychain", Relaxed true.
func DefaultOptions() Options {
	return Options{Name: "supplychain", Relaxed: true}
}

// Report is the post-solve breakdown. Slices follow the fixed iteration order
// documented on each type, so two reports of the same solution compare equal.
type Report struct {
	TotalCost float64

	Orders            []OrderLine        // factory, material, supplier
	Bills             []Bill             // factory, supplier
	Production        []ProductionLine   // factory, product
	FactoryCosts      []FactoryCost      // factory
	Deliveries        []DeliveryLine     // customer, product, factory
	ShippingCosts     []CustomerCost     // customer
	UnitMaterialCosts []UnitMaterialCost // factory, material
	Allocations       []Allocation       // customer, product, factory, material
	LandedCosts       []LandedCost       // customer, product
}

// OrderLine is a non-zero order[s,m,f].
type OrderLine struct {
	Factory, Material, Supplier string
	Quantity                    float64
}

// Bill is what a supplier charges a factory: material cost plus shipping over all materials.
type Bill struct {
	Factory, Supplier string
	Amount            float64
}

// ProductionLine is a non-zero produce[p,f].
type ProductionLine struct {
	Factory, Product string
	Quantity         float64
}

// FactoryCost is the total manufacturing cost of one factory.
type FactoryCost struct {
	Factory string
	Cost    float64
}

// DeliveryLine is a non-zero deliver[c,p,f].
type DeliveryLine struct {
	Customer, Product, Factory string
	Quantity                   float64
}

// CustomerCost is the total delivery cost charged for one customer.
type CustomerCost struct {
	Customer string
	Cost     float64
}

// UnitMaterialCost is the amortised price of one material unit at one factory.
// Defined is false when Quantity is zero; UnitCost is then 0.
type UnitMaterialCost struct {
	Material, Factory string
	Spend             float64
	Quantity          float64
	UnitCost          float64
	Defined           bool
}

// Allocation is the material a factory consumes to serve one delivery.
type Allocation struct {
	Customer, Product, Factory, Material string
	Units                                float64 // product units delivered
	Quantity                             float64 // material units consumed
}

// LandedCost is the fully loaded unit cost of a product for a customer:
// allocated material + production + delivery, divided by units delivered.
type LandedCost struct {
	Customer, Product string
	Units             float64
	Total             float64
	UnitCost          float64
}
