package main

import (
	"addrsvc/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.AddressModel{},
		model.AddressSourceModel{},
		model.AddressInjectionModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
