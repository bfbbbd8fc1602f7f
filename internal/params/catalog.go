package params

// Canonical parameter keys. Components reference these constants instead of
// repeating string literals at call sites.
const (
	// Process emission factors (kgCO2e per m² of IGU surface).
	KeyRemovalEF                 = "removal.ef_kgco2_per_m2"
	KeyRemovalYield              = "removal.yield_loss"
	KeyRepairEF                  = "repair.ef_kgco2_per_m2"
	KeyRepairYield               = "repair.yield_loss"
	KeyDisassemblyEF             = "disassembly.ef_kgco2_per_m2"
	KeyDisassemblyYieldReuse     = "disassembly.yield_loss.component_reuse"
	KeyDisassemblyYieldRepurpose = "disassembly.yield_loss.repurpose"
	KeyReconditionEF             = "recondition.ef_kgco2_per_m2"
	KeyAssemblyEF                = "assembly.ef_kgco2_per_m2"
	KeyInstallEF                 = "install.ef_kgco2_per_m2"
	KeyBreakingEF                = "breaking.ef_kgco2_per_m2"
	KeyRepurposeLightEF          = "repurpose.ef_kgco2_per_m2.light"
	KeyRepurposeMediumEF         = "repurpose.ef_kgco2_per_m2.medium"
	KeyRepurposeHeavyEF          = "repurpose.ef_kgco2_per_m2.heavy"

	// Embodied carbon of new materials added during IGU assembly.
	KeyEmbodiedSpacerEF  = "embodied.ef_kgco2_per_kg.spacer"
	KeyEmbodiedSealantEF = "embodied.ef_kgco2_per_kg.sealant"

	// Recycling stream shares.
	KeyClosedLoopFloatShare = "recycling.closed_loop.float_share"
	KeyOpenLoopGlasswool    = "recycling.open_loop.glasswool_share"
	KeyOpenLoopContainer    = "recycling.open_loop.container_share"

	// Transport.
	KeyTruckEF            = "transport.ef_kgco2_per_tkm.truck"
	KeyFerryEF            = "transport.ef_kgco2_per_tkm.ferry"
	KeyBackhaulFactor     = "transport.backhaul_factor"
	KeyFallbackKM         = "transport.fallback_km.default"
	KeyFallbackLandfillKM = "transport.fallback_km.landfill"

	// Logistics and packaging.
	KeyStillageCapacity        = "stillage.capacity_units"
	KeyStillageMassKg          = "stillage.mass_empty_kg"
	KeyStillageEmbodied        = "stillage.manufacture_kgco2"
	KeyStillageLifetime        = "stillage.lifetime_cycles"
	KeyIncludeStillageEmbodied = "stillage.include_embodied"

	// Materials and geometry.
	KeyGlassDensity    = "material.glass_density_kg_m3"
	KeySealantDensity  = "material.sealant_density_kg_m3"
	KeySpacerMassPerM  = "material.spacer_mass_per_m_kg"
	KeyMassPerM2Single = "material.mass_per_m2.single"
	KeyMassPerM2Double = "material.mass_per_m2.double"
	KeyMassPerM2Triple = "material.mass_per_m2.triple"

	// Condition screening.
	KeyBreakageRate = "screening.breakage_rate"
	KeyHumidityRate = "screening.humidity_failure_rate"
)

// Default returns the built-in parameter catalog.
//
// Values follow the published recovery methodology: DEFRA 2024 freight
// factors, float glass density 2500 kg/m³, and the documented process
// factors per pathway stage. Running "igucycle params init" writes this
// catalog to disk so every default is visible and editable.
func Default() Catalog {
	return Catalog{
		SchemaVersion: SchemaVersion,
		Params: []Param{
			{Key: KeyRemovalEF, Value: 0.15, Unit: "kgCO2e/m2", Section: "process",
				Description: "On-site removal of IGUs from the existing building."},
			{Key: KeyRemovalYield, Value: 0.0, Unit: "ratio", Section: "process",
				Description: "Default yield loss during on-site removal."},
			{Key: KeyRepairEF, Value: 0.5, Unit: "kgCO2e/m2", Section: "process",
				Description: "Repair of a recovered system (resealing, gasket replacement)."},
			{Key: KeyRepairYield, Value: 0.20, Unit: "ratio", Section: "process",
				Description: "Yield loss for units that fail during repair."},
			{Key: KeyDisassemblyEF, Value: 0.5, Unit: "kgCO2e/m2", Section: "process",
				Description: "Separating an IGU into glass, spacer and sealant streams."},
			{Key: KeyDisassemblyYieldReuse, Value: 0.20, Unit: "ratio", Section: "process",
				Description: "Disassembly yield loss when components are reused as-is."},
			{Key: KeyDisassemblyYieldRepurpose, Value: 0.10, Unit: "ratio", Section: "process",
				Description: "Disassembly yield loss when components are repurposed."},
			{Key: KeyReconditionEF, Value: 0.5, Unit: "kgCO2e/m2", Section: "process",
				Description: "Reconditioning of disassembled components (cleaning, edge work)."},
			{Key: KeyAssemblyEF, Value: 1.0, Unit: "kgCO2e/m2", Section: "process",
				Description: "Assembly of a new IGU from recovered glass."},
			{Key: KeyInstallEF, Value: 0.25, Unit: "kgCO2e/m2", Section: "process",
				Description: "Installation of the recovered system into the recipient building."},
			{Key: KeyBreakingEF, Value: 0.01, Unit: "kgCO2e/m2", Section: "process",
				Description: "Breaking intact units into loose cullet."},
			{Key: KeyRepurposeLightEF, Value: 0.5, Unit: "kgCO2e/m2", Section: "process",
				Description: "Light repurposing intensity (cleaning, trimming)."},
			{Key: KeyRepurposeMediumEF, Value: 1.0, Unit: "kgCO2e/m2", Section: "process",
				Description: "Medium repurposing intensity (cutting, edge finishing)."},
			{Key: KeyRepurposeHeavyEF, Value: 2.0, Unit: "kgCO2e/m2", Section: "process",
				Description: "Heavy repurposing intensity (reshaping, lamination)."},

			{Key: KeyEmbodiedSpacerEF, Value: 8.0, Unit: "kgCO2e/kg", Section: "embodied",
				Description: "Embodied carbon of new aluminium spacer bar."},
			{Key: KeyEmbodiedSealantEF, Value: 2.5, Unit: "kgCO2e/kg", Section: "embodied",
				Description: "Embodied carbon of new sealant."},

			{Key: KeyClosedLoopFloatShare, Value: 0.80, Unit: "ratio", Section: "recycling",
				Description: "Cullet fraction accepted by the float plant in closed-loop recycling."},
			{Key: KeyOpenLoopGlasswool, Value: 0.10, Unit: "ratio", Section: "recycling",
				Description: "Cullet fraction routed to glasswool production."},
			{Key: KeyOpenLoopContainer, Value: 0.10, Unit: "ratio", Section: "recycling",
				Description: "Cullet fraction routed to container glass production."},

			{Key: KeyTruckEF, Value: 0.098, Unit: "kgCO2e/tkm", Section: "transport",
				Description: "HGV artic >33t, average laden (DEFRA 2024)."},
			{Key: KeyFerryEF, Value: 0.129, Unit: "kgCO2e/tkm", Section: "transport",
				Description: "Ro-Ro freight ferry."},
			{Key: KeyBackhaulFactor, Value: 1.6, Unit: "multiplier", Section: "transport",
				Description: "Accounts for the empty return leg of each journey."},
			{Key: KeyFallbackKM, Value: 100.0, Unit: "km", Section: "transport",
				Description: "Leg distance assumed when neither coordinates nor an override are given."},
			{Key: KeyFallbackLandfillKM, Value: 50.0, Unit: "km", Section: "transport",
				Description: "Distance assumed for unspecified landfill legs."},

			{Key: KeyStillageCapacity, Value: 20, Unit: "units", Section: "logistics",
				Description: "Intact IGUs carried per stillage."},
			{Key: KeyStillageMassKg, Value: 300.0, Unit: "kg", Section: "logistics",
				Description: "Mass of an empty stillage, added to intact cargo."},
			{Key: KeyStillageEmbodied, Value: 500.0, Unit: "kgCO2e", Section: "logistics",
				Description: "Embodied carbon of manufacturing one stillage."},
			{Key: KeyStillageLifetime, Value: 100, Unit: "cycles", Section: "logistics",
				Description: "Expected round trips over a stillage's service life."},
			{Key: KeyIncludeStillageEmbodied, Value: false, Unit: "bool", Section: "logistics",
				Description: "Amortize stillage embodied carbon onto intact transport legs."},

			{Key: KeyGlassDensity, Value: 2500.0, Unit: "kg/m3", Section: "material",
				Description: "Density of float glass."},
			{Key: KeySealantDensity, Value: 1500.0, Unit: "kg/m3", Section: "material",
				Description: "Average density of IGU sealants (polysulfide base)."},
			{Key: KeySpacerMassPerM, Value: 0.16, Unit: "kg/m", Section: "material",
				Description: "Linear mass of aluminium spacer bar."},
			{Key: KeyMassPerM2Single, Value: 10.0, Unit: "kg/m2", Section: "material",
				Description: "Fallback surface mass for single glazing."},
			{Key: KeyMassPerM2Double, Value: 20.0, Unit: "kg/m2", Section: "material",
				Description: "Fallback surface mass for double glazing."},
			{Key: KeyMassPerM2Triple, Value: 30.0, Unit: "kg/m2", Section: "material",
				Description: "Fallback surface mass for triple glazing."},

			{Key: KeyBreakageRate, Value: 0.05, Unit: "ratio", Section: "screening",
				Description: "Global breakage rate applied during condition screening."},
			{Key: KeyHumidityRate, Value: 0.05, Unit: "ratio", Section: "screening",
				Description: "Rate of units failing humidity inspection."},
		},
	}
}

// DefaultRegistry builds a Registry over the built-in catalog.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(Default())
	if err != nil {
		// The built-in catalog is validated by tests; failure here is a bug.
		panic(err)
	}
	return reg
}
