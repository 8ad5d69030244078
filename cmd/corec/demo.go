package main

import (
	"fmt"

	"github.com/sunholo/corec/internal/canon"
	"github.com/sunholo/corec/internal/diag"
	"github.com/sunholo/corec/internal/dtree"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pipeline"
	"github.com/sunholo/corec/internal/pool"
)

// runDemo builds a tiny built-in program exercising every phase
// (branch, loop, match) and runs it through the full pipeline, the
// same way `ailang run` walks a parsed program through its evaluator.
func runDemo(opts CompileOptions) {
	in := ident.New()
	p := pool.New(in)
	a := canon.NewArena()

	a.AddFunc(buildPickFunc(a, in))
	a.AddFunc(buildLoopFunc(a, in))
	a.AddFunc(buildMatchFunc(a, in))

	logger := diag.NewLogger()
	if !opts.Trace {
		logger = nil
	}

	result, err := pipeline.Run(pipeline.Options{
		Parallelism: opts.Parallelism,
		Logger:      logger,
		Interner:    in,
	}, a, p)
	if err != nil {
		fmt.Printf("%s: %v\n", red("Error"), err)
		return
	}

	fmt.Printf("%s lowered %d functions, %d extracted lambdas\n",
		green("✓"), len(result.Funcs), len(result.Lambdas))
	for _, fr := range result.Funcs {
		fmt.Printf("  %s %s: %d blocks, %d reuse pair(s)\n",
			cyan("→"), in.Lookup(fr.Name), len(fr.Func.Blocks), len(fr.Pairs))
	}
	if len(result.Diagnostics) > 0 {
		fmt.Printf("%s %d diagnostic(s):\n", yellow("⚠"), len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Printf("  %s %s: %s\n", yellow("•"), d.Code, d.Message)
		}
	}
}

func buildPickFunc(a *canon.Arena, in *ident.Interner) canon.Func {
	cond := a.PushLitBool(true, canon.Zero)
	then := a.PushLitInt(1, canon.Zero)
	els := a.PushLitInt(2, canon.Zero)
	a.SetType(then, pool.IntIdx)
	a.SetType(els, pool.IntIdx)
	ifExpr := a.PushIf(cond, then, els, canon.Zero)
	a.SetType(ifExpr, pool.IntIdx)
	return canon.Func{Name: in.Intern("pick"), Body: ifExpr, ReturnType: pool.IntIdx}
}

func buildLoopFunc(a *canon.Arena, in *ident.Interner) canon.Func {
	breakVal := a.PushLitInt(7, canon.Zero)
	a.SetType(breakVal, pool.IntIdx)
	body := a.PushBreak(breakVal, canon.Zero)
	loopExpr := a.PushLoop(body, canon.Zero)
	a.SetType(loopExpr, pool.IntIdx)
	return canon.Func{Name: in.Intern("once"), Body: loopExpr, ReturnType: pool.IntIdx}
}

func buildMatchFunc(a *canon.Arena, in *ident.Interner) canon.Func {
	some, none := in.Intern("Some"), in.Intern("None")
	x := in.Intern("x")

	scrutinee := a.PushLitInt(0, canon.Zero)
	a.SetType(scrutinee, pool.IntIdx)
	someBody := a.PushIdent(x, canon.Zero)
	a.SetType(someBody, pool.IntIdx)
	noneBody := a.PushLitInt(0, canon.Zero)
	a.SetType(noneBody, pool.IntIdx)

	arms := []canon.MatchArmDef{
		{
			Pattern: dtree.FlatPattern{Kind: dtree.Variant, VariantName: some, VariantIndex: 0, Fields: []dtree.FlatPattern{dtree.BindingPattern(x)}},
			Body:    someBody,
		},
		{
			Pattern: dtree.FlatPattern{Kind: dtree.Variant, VariantName: none, VariantIndex: 1},
			Body:    noneBody,
		},
	}
	matchExpr := a.PushMatch(scrutinee, arms, canon.Zero)
	a.SetType(matchExpr, pool.IntIdx)
	return canon.Func{Name: in.Intern("unwrap_or_zero"), Body: matchExpr, ReturnType: pool.IntIdx}
}
