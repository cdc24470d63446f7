package supplychain

import (
	"fmt"

	"github.com/katalvlaran/lvplan/table"
)

// Load reads the eight sheets from src (missing cells are 0, cells must be integral)
// and derives the entity sets.
//
// Errors: table.ErrMissingSheet, table.ErrBadCell, table.ErrEmptyEntitySet.
func Load(src table.Source) (*Data, error) {
	ts, err := table.LoadAll(src, table.IntZero,
		SheetStock, SheetMaterialCost, SheetShipping, SheetRequirement,
		SheetCapacity, SheetProductionCost, SheetDemand, SheetDeliveryCost)
	if err != nil {
		return nil, fmt.Errorf("supplychain: Load: %w", err)
	}
	return NewData(
		ts[SheetStock], ts[SheetMaterialCost], ts[SheetShipping], ts[SheetRequirement],
		ts[SheetCapacity], ts[SheetProductionCost], ts[SheetDemand], ts[SheetDeliveryCost],
	)
}

// NewData wires already loaded tables together. Nil tables are treated as empty.
func NewData(stock, materialCost, shipping, requirement, capacity, productionCost, demand, deliveryCost *table.Table) (*Data, error) {
	d := &Data{
		Stock:          orEmpty(stock, SheetStock),
		MaterialCost:   orEmpty(materialCost, SheetMaterialCost),
		Shipping:       orEmpty(shipping, SheetShipping),
		Requirement:    orEmpty(requirement, SheetRequirement),
		Capacity:       orEmpty(capacity, SheetCapacity),
		ProductionCost: orEmpty(productionCost, SheetProductionCost),
		Demand:         orEmpty(demand, SheetDemand),
		DeliveryCost:   orEmpty(deliveryCost, SheetDeliveryCost),
	}

	d.Suppliers = table.RowLabels(d.Stock)
	d.Materials = table.ColLabels(d.Stock)
	d.Factories = table.ColLabels(d.Shipping)
	d.Products = table.RowLabels(d.Requirement)
	d.Customers = table.ColLabels(d.Demand)

	for _, e := range []struct {
		name   string
		labels []string
	}{
		{"suppliers", d.Suppliers},
		{"materials", d.Materials},
		{"factories", d.Factories},
		{"products", d.Products},
		{"customers", d.Customers},
	} {
		if err := table.RequireEntities(e.name, e.labels); err != nil {
			return nil, fmt.Errorf("supplychain: %w", err)
		}
	}
	return d, nil
}

func orEmpty(t *table.Table, name string) *table.Table {
	if t == nil {
		return table.New(name)
	}
	return t
}
