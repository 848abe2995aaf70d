package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder often populates optional fields with non-nil, zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// evalObject evaluates an object-valued attribute like `params` or `user`
// into a map. An omitted attribute yields an empty map.
func evalObject(ctx context.Context, expr hcl.Expression, attrName string) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if !isExprDefined(ctx, expr, attrName) {
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid value for '%s': %w", attrName, diags)
	}
	if val.IsNull() {
		return out, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("'%s' must be an object, got %s", attrName, ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("'%s' must be a constant value", attrName)
	}
	for k, v := range val.AsValueMap() {
		out[k] = v
	}
	return out, nil
}

// declRange returns the source range of a block body.
func declRange(body hcl.Body) hcl.Range {
	if sb, ok := body.(*hclsyntax.Body); ok {
		return sb.SrcRange
	}
	if body == nil {
		return hcl.Range{}
	}
	return body.MissingItemRange()
}
