package codegen

// documentTemplate is the html/template shell wrapped around each page's markup.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="styles.css">
</head>
<body>
{{.Body}}
  <script src="script.js"></script>
</body>
</html>
`

// stylesheetContent covers every class the component templates emit.
const stylesheetContent = `/* ============ Base ============ */
:root {
  --color-primary: #2563eb;
  --color-primary-dark: #1d4ed8;
  --color-secondary: #64748b;
  --color-text: #1e293b;
  --color-muted: #64748b;
  --color-bg: #ffffff;
  --color-surface: #f8fafc;
  --color-border: #e2e8f0;
  --radius: 8px;
  --shadow: 0 1px 3px rgba(15, 23, 42, 0.1), 0 1px 2px rgba(15, 23, 42, 0.06);
  --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
}

*, *::before, *::after { box-sizing: border-box; }

html { scroll-behavior: smooth; }

body {
  margin: 0;
  font-family: var(--font-sans);
  color: var(--color-text);
  background: var(--color-bg);
  line-height: 1.6;
}

img { max-width: 100%; height: auto; display: block; }

a { color: var(--color-primary); }

/* ============ Navbar ============ */
.navbar {
  position: sticky;
  top: 0;
  z-index: 10;
  background: var(--color-bg);
  border-bottom: 1px solid var(--color-border);
}
.navbar-container {
  max-width: 1200px;
  margin: 0 auto;
  padding: 1rem 1.5rem;
  display: flex;
  align-items: center;
  justify-content: space-between;
}
.navbar-brand {
  font-size: 1.25rem;
  font-weight: 700;
  color: var(--color-text);
  text-decoration: none;
}
.navbar-toggle {
  display: none;
  background: none;
  border: 0;
  font-size: 1.5rem;
  cursor: pointer;
}
.navbar-links {
  list-style: none;
  display: flex;
  gap: 1.5rem;
  margin: 0;
  padding: 0;
}
.navbar-links a { color: var(--color-text); text-decoration: none; }
.navbar-links a:hover { color: var(--color-primary); }

/* ============ Layout ============ */
.section { padding: 4rem 1.5rem; }
.container { max-width: 1200px; margin: 0 auto; padding: 0 1.5rem; }
.grid { display: grid; gap: 1.5rem; }
.grid-cols-1 { grid-template-columns: repeat(1, minmax(0, 1fr)); }
.grid-cols-2 { grid-template-columns: repeat(2, minmax(0, 1fr)); }
.grid-cols-3 { grid-template-columns: repeat(3, minmax(0, 1fr)); }
.grid-cols-4 { grid-template-columns: repeat(4, minmax(0, 1fr)); }
.grid-cols-5 { grid-template-columns: repeat(5, minmax(0, 1fr)); }
.grid-cols-6 { grid-template-columns: repeat(6, minmax(0, 1fr)); }
.column { display: flex; flex-direction: column; gap: 1rem; }
.divider { border: 0; border-top: 1px solid var(--color-border); margin: 2rem 0; }
.spacer { width: 100%; }
.component { display: block; }

/* ============ Hero ============ */
.hero {
  padding: 6rem 1.5rem;
  text-align: center;
  background: linear-gradient(135deg, #eff6ff 0%, #f8fafc 100%);
}
.hero-content { max-width: 720px; margin: 0 auto; }
.hero-title { font-size: 3rem; line-height: 1.1; margin: 0 0 1rem; }
.hero-description { font-size: 1.25rem; color: var(--color-muted); margin: 0 0 2rem; }

/* ============ Content ============ */
.heading { margin: 0 0 1rem; line-height: 1.2; }
.text { margin: 0 0 1rem; }
.markdown pre { background: var(--color-surface); padding: 1rem; border-radius: var(--radius); overflow-x: auto; }
.markdown table { border-collapse: collapse; }
.markdown th, .markdown td { border: 1px solid var(--color-border); padding: 0.5rem 0.75rem; }
.image { border-radius: var(--radius); }
.link { text-decoration: underline; }

.btn {
  display: inline-block;
  padding: 0.75rem 1.5rem;
  border-radius: var(--radius);
  font-weight: 600;
  text-decoration: none;
  border: 2px solid transparent;
  cursor: pointer;
  transition: background 0.2s ease;
}
.btn-primary { background: var(--color-primary); color: #fff; }
.btn-primary:hover { background: var(--color-primary-dark); }
.btn-secondary { background: var(--color-secondary); color: #fff; }
.btn-outline { background: transparent; color: var(--color-primary); border-color: var(--color-primary); }

/* ============ Cards ============ */
.card {
  background: var(--color-bg);
  border: 1px solid var(--color-border);
  border-radius: var(--radius);
  box-shadow: var(--shadow);
  overflow: hidden;
}
.card-image { width: 100%; object-fit: cover; }
.card-body { padding: 1.5rem; }
.card-title { margin: 0 0 0.5rem; }
.card-text { margin: 0 0 1rem; color: var(--color-muted); }

/* ============ Sections ============ */
.features, .pricing, .testimonial, .cta { padding: 4rem 1.5rem; text-align: center; }
.features-title, .pricing-title, .cta-title { font-size: 2rem; margin: 0 0 2rem; }
.features-grid, .pricing-grid {
  max-width: 1200px;
  margin: 0 auto;
  display: grid;
  gap: 1.5rem;
  grid-template-columns: repeat(auto-fit, minmax(240px, 1fr));
}
.feature-item { padding: 1.5rem; border-radius: var(--radius); background: var(--color-surface); }
.feature-title { margin: 0 0 0.5rem; }
.feature-description { margin: 0; color: var(--color-muted); }

.testimonial { background: var(--color-surface); }
.testimonial-quote { font-size: 1.25rem; font-style: italic; max-width: 720px; margin: 0 auto 1rem; }
.testimonial-author { color: var(--color-muted); margin: 0; }

.pricing-plan {
  padding: 2rem;
  border: 1px solid var(--color-border);
  border-radius: var(--radius);
  box-shadow: var(--shadow);
}
.pricing-name { margin: 0 0 0.5rem; }
.pricing-price { font-size: 2rem; font-weight: 700; margin: 0 0 1rem; }
.pricing-features { list-style: none; padding: 0; margin: 0; }
.pricing-features li { padding: 0.25rem 0; }

.cta { background: var(--color-primary); color: #fff; }
.cta-description { margin: 0 0 2rem; }
.cta .btn-primary { background: #fff; color: var(--color-primary); }

/* ============ Forms ============ */
.form { max-width: 560px; margin: 0 auto; display: flex; flex-direction: column; gap: 1rem; }
.form-title { margin: 0; }
.form-group { display: flex; flex-direction: column; gap: 0.25rem; }
.form-group label { font-weight: 600; }
.form-group input, .form-group textarea {
  padding: 0.625rem 0.75rem;
  border: 1px solid var(--color-border);
  border-radius: var(--radius);
  font: inherit;
}
.form-message { color: #16a34a; margin: 0; }

/* ============ Media ============ */
.video { position: relative; padding-bottom: 56.25%; height: 0; overflow: hidden; border-radius: var(--radius); }
.video iframe { position: absolute; inset: 0; width: 100%; height: 100%; border: 0; }

/* ============ Footer ============ */
.footer { background: #0f172a; color: #cbd5e1; padding: 2rem 1.5rem; }
.footer-container {
  max-width: 1200px;
  margin: 0 auto;
  display: flex;
  flex-wrap: wrap;
  justify-content: space-between;
  gap: 1rem;
}
.footer-text { margin: 0; }
.footer-links { list-style: none; display: flex; gap: 1rem; margin: 0; padding: 0; }
.footer-links a { color: #cbd5e1; text-decoration: none; }

/* ============ Responsive ============ */
@media (max-width: 768px) {
  .navbar-toggle { display: block; }
  .navbar-links { display: none; flex-direction: column; gap: 0.75rem; width: 100%; }
  .navbar-links.open { display: flex; }
  .navbar-container { flex-wrap: wrap; }
  .grid { grid-template-columns: 1fr; }
  .hero-title { font-size: 2.25rem; }
}
`

// scriptContent wires the mobile menu, smooth scrolling and form submits.
const scriptContent = `(function() {
  'use strict';

  document.querySelectorAll('.navbar-toggle').forEach(function(toggle) {
    toggle.addEventListener('click', function() {
      var nav = toggle.closest('.navbar');
      if (!nav) return;
      var links = nav.querySelector('.navbar-links');
      if (links) links.classList.toggle('open');
    });
  });

  document.querySelectorAll('a[href^="#"]').forEach(function(anchor) {
    anchor.addEventListener('click', function(e) {
      var id = anchor.getAttribute('href');
      if (!id || id === '#') return;
      var target = document.querySelector(id);
      if (!target) return;
      e.preventDefault();
      target.scrollIntoView({ behavior: 'smooth', block: 'start' });
    });
  });

  document.querySelectorAll('form.form').forEach(function(form) {
    form.addEventListener('submit', function(e) {
      e.preventDefault();
      var msg = form.querySelector('.form-message');
      if (!msg) {
        msg = document.createElement('p');
        msg.className = 'form-message';
        form.appendChild(msg);
      }
      msg.textContent = 'Thank you! Your message has been received.';
      form.reset();
    });
  });
})();
`
