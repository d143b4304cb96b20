package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) RegisterDOM(dom EditorDOM) error {
	// Expose 'app' object
	appObj := e.vm.NewObject()
	err := appObj.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Alert(msg)
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	e.vm.Set("app", appObj)

	// Expose editor methods globally (as if 'this' is the editor)
	e.vm.Set("createText", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 4 {
			return goja.Null()
		}
		page := int(call.Arguments[0].ToInteger())
		x := call.Arguments[1].ToFloat()
		y := call.Arguments[2].ToFloat()
		content := call.Arguments[3].String()
		return e.annotationValue(dom.CreateText(page, x, y, content))
	})

	e.vm.Set("createStroke", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Null()
		}
		page := int(call.Arguments[0].ToInteger())
		points := exportPoints(call.Arguments[1])
		return e.annotationValue(dom.CreateStroke(page, points))
	})

	e.vm.Set("annotations", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.NewArray()
		}
		page := int(call.Arguments[0].ToInteger())
		proxies := dom.Annotations(page)
		values := make([]interface{}, len(proxies))
		for i, p := range proxies {
			values[i] = e.annotationValue(p)
		}
		return e.vm.NewArray(values...)
	})

	e.vm.Set("deleteAnnotation", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(false)
		}
		return e.vm.ToValue(dom.DeleteAnnotation(call.Arguments[0].String()))
	})

	e.vm.Set("selectAnnotation", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(false)
		}
		return e.vm.ToValue(dom.SelectAnnotation(call.Arguments[0].String()))
	})

	e.vm.Set("undo", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.Undo())
	})
	e.vm.Set("redo", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.Redo())
	})

	return nil
}

// annotationValue builds the JS view of an annotation: id/kind/page as data
// properties and content as an accessor that writes through the proxy.
func (e *GojaEngine) annotationValue(p AnnotationProxy) goja.Value {
	if p == nil {
		return goja.Null()
	}
	obj := e.vm.NewObject()
	obj.Set("id", p.GetID())
	obj.Set("kind", p.GetKind())
	obj.Set("page", p.GetPage())
	obj.DefineAccessorProperty("content",
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.vm.ToValue(p.GetContent())
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				p.SetContent(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_TRUE, // Configurable
		goja.FLAG_TRUE, // Enumerable
	)
	return obj
}

// exportPoints accepts [[x, y], ...] or [{x, y}, ...] arrays from scripts.
func exportPoints(v goja.Value) []Point {
	raw, ok := v.Export().([]interface{})
	if !ok {
		return nil
	}
	points := make([]Point, 0, len(raw))
	for _, item := range raw {
		switch p := item.(type) {
		case []interface{}:
			if len(p) >= 2 {
				points = append(points, Point{X: toFloat(p[0]), Y: toFloat(p[1])})
			}
		case map[string]interface{}:
			points = append(points, Point{X: toFloat(p["x"]), Y: toFloat(p["y"])})
		}
	}
	return points
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
