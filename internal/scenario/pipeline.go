package scenario

import (
	"fmt"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/geometry"
	"github.com/vitrify/igucycle/internal/params"
	"github.com/vitrify/igucycle/internal/stage"
)

// pipeStep is one element of a declarative pathway pipeline: exactly one of
// a processing primitive, a transport leg, or the terminal disposal marker.
type pipeStep struct {
	process  *stage.Step
	leg      *LegID
	terminal bool
}

func processStep(s stage.Step) pipeStep { return pipeStep{process: &s} }

func legStep(id LegID) pipeStep { return pipeStep{leg: &id} }

// pipelineFor builds the ordered step list for a pathway from registry
// configuration. All eleven pathways share this one executor; they differ
// only in which primitives appear, their yield fractions and their gates.
func pipelineFor(p Pathway, reg *params.Registry) ([]pipeStep, error) {
	removal, err := removalStep(reg)
	if err != nil {
		return nil, err
	}

	switch p {
	case SystemReuse, SystemReuseRepair:
		gates := []stage.Gate{damageGate()}
		if p == SystemReuse {
			// Without a repair stage, failed seals and fogging are terminal.
			gates = append(gates, edgeSealGate(), foggingGate())
		}
		screening, err := screeningStep(reg, gates...)
		if err != nil {
			return nil, err
		}
		steps := []pipeStep{processStep(removal), processStep(screening), legStep(LegOriginToProcessor)}
		if p == SystemReuseRepair {
			repairEF, err := reg.Float(params.KeyRepairEF)
			if err != nil {
				return nil, err
			}
			repairYield, err := reg.Float(params.KeyRepairYield)
			if err != nil {
				return nil, err
			}
			steps = append(steps, processStep(stage.Step{
				Kind:    stage.KindRepair,
				Yield:   repairYield,
				EFPerM2: repairEF,
			}))
		}
		installEF, err := reg.Float(params.KeyInstallEF)
		if err != nil {
			return nil, err
		}
		steps = append(steps,
			legStep(LegProcessorToDestination),
			processStep(stage.Step{Kind: stage.KindInstall, EFPerM2: installEF}),
		)
		return steps, nil

	case ComponentReuse:
		screening, err := screeningStep(reg, damageGate())
		if err != nil {
			return nil, err
		}
		disEF, err := reg.Float(params.KeyDisassemblyEF)
		if err != nil {
			return nil, err
		}
		disYield, err := reg.Float(params.KeyDisassemblyYieldReuse)
		if err != nil {
			return nil, err
		}
		recondEF, err := reg.Float(params.KeyReconditionEF)
		if err != nil {
			return nil, err
		}
		asmEF, err := reg.Float(params.KeyAssemblyEF)
		if err != nil {
			return nil, err
		}
		spacerEF, err := reg.Float(params.KeyEmbodiedSpacerEF)
		if err != nil {
			return nil, err
		}
		sealantEF, err := reg.Float(params.KeyEmbodiedSealantEF)
		if err != nil {
			return nil, err
		}
		return []pipeStep{
			processStep(removal),
			processStep(screening),
			legStep(LegOriginToProcessor),
			processStep(stage.Step{Kind: stage.KindDisassembly, Yield: disYield, EFPerM2: disEF}),
			processStep(stage.Step{Kind: stage.KindRecondition, EFPerM2: recondEF}),
			processStep(stage.Step{
				Kind:           stage.KindAssembly,
				EFPerM2:        asmEF,
				SpacerEFPerKg:  spacerEF,
				SealantEFPerKg: sealantEF,
			}),
			legStep(LegProcessorToDestination),
		}, nil

	case RepurposeLight, RepurposeMedium, RepurposeHeavy:
		disEF, err := reg.Float(params.KeyDisassemblyEF)
		if err != nil {
			return nil, err
		}
		disYield, err := reg.Float(params.KeyDisassemblyYieldRepurpose)
		if err != nil {
			return nil, err
		}
		repEF, err := repurposeEF(p, reg)
		if err != nil {
			return nil, err
		}
		return []pipeStep{
			processStep(removal),
			legStep(LegOriginToProcessor),
			processStep(stage.Step{Kind: stage.KindDisassembly, Yield: disYield, EFPerM2: disEF}),
			processStep(stage.Step{Kind: stage.KindRepurpose, EFPerM2: repEF}),
			legStep(LegProcessorToDestination),
		}, nil

	case ClosedLoop:
		breakEF, err := reg.Float(params.KeyBreakingEF)
		if err != nil {
			return nil, err
		}
		floatShare, err := reg.Float(params.KeyClosedLoopFloatShare)
		if err != nil {
			return nil, err
		}
		return []pipeStep{
			processStep(removal),
			legStep(LegOriginToProcessor),
			processStep(stage.Step{Kind: stage.KindBreaking, EFPerM2: breakEF}),
			processStep(stage.Step{
				Kind: stage.KindQualityGate,
				Name: "Float purity gate",
				Gates: []stage.Gate{
					stage.LaminatedGate(),
					shareGate("float-share", floatShare,
						"cullet fraction below float quality routed to landfill"),
				},
			}),
			legStep(LegProcessorToRecycler),
		}, nil

	case OpenLoopGlasswool, OpenLoopContainer, OpenLoopCombined:
		breakEF, err := reg.Float(params.KeyBreakingEF)
		if err != nil {
			return nil, err
		}
		useful, gateName, err := openLoopShare(p, reg)
		if err != nil {
			return nil, err
		}
		return []pipeStep{
			processStep(removal),
			legStep(LegOriginToProcessor),
			processStep(stage.Step{Kind: stage.KindBreaking, EFPerM2: breakEF}),
			processStep(stage.Step{
				Kind: stage.KindQualityGate,
				Name: "Usable fraction gate",
				Gates: []stage.Gate{
					shareGate(gateName, useful,
						"cullet beyond the usable down-cycling fraction routed to landfill"),
				},
			}),
			legStep(LegProcessorToRecycler),
		}, nil

	case Landfill:
		return []pipeStep{
			processStep(removal),
			{terminal: true},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPathway, int(p))
	}
}

// removalStep builds the shared on-site removal primitive.
func removalStep(reg *params.Registry) (stage.Step, error) {
	ef, err := reg.Float(params.KeyRemovalEF)
	if err != nil {
		return stage.Step{}, err
	}
	yield, err := reg.Float(params.KeyRemovalYield)
	if err != nil {
		return stage.Step{}, err
	}
	return stage.Step{Kind: stage.KindRemoval, Yield: yield, EFPerM2: ef}, nil
}

// screeningStep builds the on-site condition screen applied before reuse
// pathways: a sampling loss for breakage and humidity failures plus any
// condition gates. It runs at the origin, so rejected units take the
// site-to-landfill disposal leg.
func screeningStep(reg *params.Registry, gates ...stage.Gate) (stage.Step, error) {
	breakage, err := reg.Float(params.KeyBreakageRate)
	if err != nil {
		return stage.Step{}, err
	}
	humidity, err := reg.Float(params.KeyHumidityRate)
	if err != nil {
		return stage.Step{}, err
	}
	return stage.Step{
		Kind:  stage.KindQualityGate,
		Name:  "Condition screening",
		Yield: breakage + humidity,
		Gates: gates,
	}, nil
}

// damageGate rejects cracked or chipped stock outright; no reuse pathway can
// recover it.
func damageGate() stage.Gate {
	return stage.Gate{
		Name: "damage-screen",
		Applies: func(g geometry.IGUGroup, _ flow.State) bool {
			return g.Condition.CracksOrChips
		},
		Fraction: 1.0,
		Reason:   "cracked or chipped units cannot be reused",
	}
}

// edgeSealGate rejects failed edge seals on pathways without a repair stage.
func edgeSealGate() stage.Gate {
	return stage.Gate{
		Name: "edge-seal-screen",
		Applies: func(g geometry.IGUGroup, _ flow.State) bool {
			return g.Condition.EdgeSealFailed
		},
		Fraction: 1.0,
		Reason:   "failed edge seal cannot be reinstalled without repair",
	}
}

// foggingGate rejects fogged cavities on pathways without a repair stage.
func foggingGate() stage.Gate {
	return stage.Gate{
		Name: "fogging-screen",
		Applies: func(g geometry.IGUGroup, _ flow.State) bool {
			return g.Condition.VisibleFogging
		},
		Fraction: 1.0,
		Reason:   "visible fogging indicates cavity failure",
	}
}

// repurposeEF selects the intensity emission factor for a repurpose pathway.
func repurposeEF(p Pathway, reg *params.Registry) (float64, error) {
	switch p {
	case RepurposeLight:
		return reg.Float(params.KeyRepurposeLightEF)
	case RepurposeMedium:
		return reg.Float(params.KeyRepurposeMediumEF)
	case RepurposeHeavy:
		return reg.Float(params.KeyRepurposeHeavyEF)
	default:
		return 0, fmt.Errorf("%w: %s is not a repurpose pathway", ErrUnknownPathway, p)
	}
}

// openLoopShare returns the usable cullet fraction for an open-loop variant.
func openLoopShare(p Pathway, reg *params.Registry) (float64, string, error) {
	gw, err := reg.Float(params.KeyOpenLoopGlasswool)
	if err != nil {
		return 0, "", err
	}
	cont, err := reg.Float(params.KeyOpenLoopContainer)
	if err != nil {
		return 0, "", err
	}
	switch p {
	case OpenLoopGlasswool:
		return gw, "glasswool-share", nil
	case OpenLoopContainer:
		return cont, "container-share", nil
	case OpenLoopCombined:
		return gw + cont, "combined-share", nil
	default:
		return 0, "", fmt.Errorf("%w: %s is not an open-loop pathway", ErrUnknownPathway, p)
	}
}

// shareGate builds an unconditional gate retaining usefulShare of the input
// and rejecting the rest.
func shareGate(name string, usefulShare float64, reason string) stage.Gate {
	return stage.Gate{
		Name: name,
		Applies: func(_ geometry.IGUGroup, _ flow.State) bool {
			return true
		},
		Fraction: 1.0 - usefulShare,
		Reason:   reason,
	}
}
