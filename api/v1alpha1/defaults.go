/*
Copyright 2026 The lpmc Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

// Names used by the built-in beverage production problem.
const (
	DefaultProblemName = "Production_Optimization"

	ProductLemonade   = "Lemonade"
	ProductFruitJuice = "Fruit_Juice"

	ResourceWater      = "Water"
	ResourceSugar      = "Sugar"
	ResourceLemonJuice = "Lemon_Juice"
	ResourceFruitPuree = "Fruit_Puree"

	ObjectiveTotalProducts = "Total_Products"
	ObjectiveTotalProfit   = "Total_Profit"
)

// DefaultProductionProblem returns the beverage production problem: maximize the total number
// of Lemonade and Fruit_Juice units subject to water, sugar, lemon juice and fruit puree limits.
func DefaultProductionProblem() *ProductionProblem {
	return &ProductionProblem{
		Name: DefaultProblemName,
		Resources: []Resource{
			{Name: ResourceWater, Available: 100},
			{Name: ResourceSugar, Available: 50},
			{Name: ResourceLemonJuice, Available: 30},
			{Name: ResourceFruitPuree, Available: 40},
		},
		Products: []Product{
			{
				Name: ProductLemonade,
				Recipe: map[string]float64{
					ResourceWater:      2,
					ResourceSugar:      1,
					ResourceLemonJuice: 1,
				},
			},
			{
				Name: ProductFruitJuice,
				Recipe: map[string]float64{
					ResourceWater:      1,
					ResourceFruitPuree: 2,
				},
			},
		},
		Objective: Objective{
			Name:    ObjectiveTotalProducts,
			Weights: map[string]float64{ProductLemonade: 1, ProductFruitJuice: 1},
		},
		AlternativeObjectives: []Objective{
			{
				Name:    ObjectiveTotalProfit,
				Weights: map[string]float64{ProductLemonade: 3, ProductFruitJuice: 2},
			},
		},
	}
}
