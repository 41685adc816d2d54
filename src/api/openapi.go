package api

// openAPIDocument describes the agent-facing actions. The webhook is left out
// because only Stripe calls it.
func openAPIDocument(opts Options) map[string]any {
	conversationParam := map[string]any{
		"name":     ConversationHeader,
		"in":       "header",
		"required": true,
		"schema":   map[string]any{"type": "string"},
	}
	missingHeader := map[string]any{"description": "Missing " + ConversationHeader + " header"}

	doc := map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   opts.AppName,
			"version": "0.1.0",
		},
		"paths": map[string]any{
			"/getPaymentURL": map[string]any{
				"get": map[string]any{
					"operationId": "getPaymentURL",
					"summary":     "Get a payment link for this conversation",
					"parameters":  []any{conversationParam},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Instruction text containing the checkout URL",
							"content": map[string]any{
								"text/plain": map[string]any{"schema": map[string]any{"type": "string"}},
							},
						},
						"400": missingHeader,
					},
				},
			},
			"/hasUserPaid": map[string]any{
				"get": map[string]any{
					"operationId": "hasUserPaid",
					"summary":     "Check whether this conversation has been paid for",
					"parameters":  []any{conversationParam},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Payment state",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{
										"type":       "object",
										"properties": map[string]any{"paid": map[string]any{"type": "boolean"}},
										"required":   []any{"paid"},
									},
								},
							},
						},
						"400": missingHeader,
					},
				},
			},
		},
	}

	if opts.PublicURL != "" {
		doc["servers"] = []any{
			map[string]any{"url": opts.PublicURL, "description": "Production environment"},
		}
	}

	return doc
}
