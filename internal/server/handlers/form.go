package handlers

import "html/template"

// formTemplate renders the provider form contents. The pay button id must
// match the trigger the page preserves across the content swap.
var formTemplate = template.Must(template.New("vnpay_form").Parse(`
<input type="hidden" name="vnpay_key" value="{{.PublishableKey}}"/>
<input type="hidden" name="vnpay_image" value="{{.ImageURL}}"/>
<input type="hidden" id="acquirer_vnpay" name="acquirer_id" value="{{.AcquirerID}}"/>
<input type="hidden" name="amount" value="{{printf "%g" .Amount}}"/>
<input type="hidden" name="currency" value="{{.Currency}}"/>
<input type="hidden" name="email" value="{{.Email}}"/>
<input type="hidden" name="invoice_num" value="{{.InvoiceNumber}}"/>
<input type="hidden" name="merchant" value="{{.Merchant}}"/>
<input type="hidden" name="return_url" value="{{.ReturnURL}}"/>
<input type="hidden" name="access_token" value="{{.AccessToken}}"/>
<button type="submit" id="pay_vnpay" class="btn btn-primary">Pay Now</button>
`))
