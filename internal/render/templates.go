package render

// Template keys known to the renderer. Adding a form template means adding a
// key here, its body source below, and a subject rule in newTemplates.
const (
	KeyContact    = "contact"
	KeySupport    = "support"
	KeyNewsletter = "newsletter"
	KeyGeneric    = "generic"
)

const contactBody = `<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{ name }}</p>
<p><strong>Email:</strong> {{ email }}</p>
<p><strong>Service Type:</strong> {{ service_type }}</p>
<hr>
<p><strong>Message:</strong></p>
<p style="white-space: pre-wrap;">{{ message }}</p>`

const supportBody = `<h2>New Support Request</h2>
<p><strong>Name:</strong> {{ name }}</p>
<p><strong>Email:</strong> {{ email }}</p>
<p><strong>Priority:</strong> {{ priority }}</p>
<p><strong>Issue:</strong> {{ issue }}</p>
<hr>
<p><strong>Description:</strong></p>
<p style="white-space: pre-wrap;">{{ description }}</p>`

const newsletterBody = `<h2>New Newsletter Signup</h2>
<p><strong>Name:</strong> {{ name }}</p>
<p><strong>Email:</strong> {{ email }}</p>`

const genericBody = `<h2>New Form Submission</h2>
<pre>{{ payload }}</pre>`
