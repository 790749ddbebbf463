package main

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tadashuai/bvh2d"
)

var scriptPath string

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Replay a fixed operation script and report the final overlapping-pair set",
		Long: `validate replays a YAML-described sequence of create/move/destroy
operations against a BroadPhase, calling Validate after every step so any
structural corruption panics immediately rather than surfacing later as a
wrong answer. It prints the final deduplicated pair set, one pair per line,
in a fixed sort order.

This binary's Query implementation is selected at compile time (the default
tree-walk, or the linear-scan oracle under -tags bruteforce). Running the
same script through two builds of bvhbench and diffing their "validate"
output is the cross-check described for the brute-force alternative: the
two builds must report byte-identical pair sets for every script.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return errors.New("validate requires --script")
			}
			return runValidate(scriptPath)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "path to a YAML operation script")
	return cmd
}

func runValidate(path string) error {
	log := newLogger()
	defer log.Sync() //nolint:errcheck

	script, err := loadScript(path)
	if err != nil {
		return err
	}

	bp := bvh.NewBroadPhase(script.Tree)
	ids := make(map[int]int32)

	for stepIndex, op := range script.Operations {
		if err := applyOperation(bp, ids, op); err != nil {
			return errors.Wrapf(err, "step %d (%s index %d)", stepIndex, op.Kind, op.Index)
		}
		if err := validateStep(bp, stepIndex); err != nil {
			return err
		}
	}

	var pairs []string
	bp.UpdatePairs(func(a, b interface{}) {
		pairs = append(pairs, fmt.Sprintf("%v %v", a, b))
	})
	sort.Strings(pairs)

	for _, p := range pairs {
		fmt.Println(p)
	}

	log.Info("validate complete", zap.Int("operations", len(script.Operations)), zap.Int("pairs", len(pairs)))
	return nil
}

func validateStep(bp *bvh.BroadPhase, stepIndex int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("step %d: invariant violated: %v", stepIndex, r)
		}
	}()
	bp.Validate()
	return nil
}

func applyOperation(bp *bvh.BroadPhase, ids map[int]int32, op Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("invariant violated: %v", r)
		}
	}()

	box := bvh.AABB{
		LowerBound: bvh.Vec2{X: op.Box[0], Y: op.Box[1]},
		UpperBound: bvh.Vec2{X: op.Box[2], Y: op.Box[3]},
	}

	switch op.Kind {
	case "create":
		ids[op.Index] = bp.CreateProxy(box, op.Index)
	case "move":
		id, ok := ids[op.Index]
		if !ok {
			return errors.Newf("move references unknown index %d", op.Index)
		}
		disp := bvh.Vec2{X: op.Displacement[0], Y: op.Displacement[1]}
		bp.MoveProxy(id, box, disp)
	case "destroy":
		id, ok := ids[op.Index]
		if !ok {
			return errors.Newf("destroy references unknown index %d", op.Index)
		}
		bp.DestroyProxy(id)
		delete(ids, op.Index)
	default:
		return errors.Newf("unknown operation kind %q", op.Kind)
	}
	return nil
}
